package session_test

import (
	"context"
	"errors"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/storefront-cart/internal/checkout"
	"github.com/nikolayk812/storefront-cart/internal/commerce/memory"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"github.com/nikolayk812/storefront-cart/internal/repository"
	"github.com/nikolayk812/storefront-cart/internal/session"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"sync"
	"testing"
)

// fakeBridge records calls and lets tests stall or fail checkout creation.
type fakeBridge struct {
	mu sync.Mutex

	createCalls int
	createErr   error
	release     chan struct{}
	started     chan struct{}

	adds    []string
	removes []string
	updates map[string]int
	lineIDs map[string]string
}

func newFakeBridge() *fakeBridge {
	return &fakeBridge{
		updates: make(map[string]int),
		lineIDs: make(map[string]string),
	}
}

func (b *fakeBridge) CreateCheckout(ctx context.Context, items []domain.LineItem) (domain.CheckoutHandoff, error) {
	b.mu.Lock()
	b.createCalls++
	release, started, err := b.release, b.started, b.createErr
	b.mu.Unlock()

	if started != nil {
		close(started)
	}
	if release != nil {
		<-release
	}
	if err != nil {
		return domain.CheckoutHandoff{}, err
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	for _, it := range items {
		b.lineIDs[it.VariantID] = "line-" + it.VariantID
	}
	return domain.CheckoutHandoff{CheckoutID: "remote-1", URL: "https://pay/remote-1"}, nil
}

func (b *fakeBridge) MirrorAdd(_ context.Context, _, variantID string, _ int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.adds = append(b.adds, variantID)
	b.lineIDs[variantID] = "line-" + variantID
}

func (b *fakeBridge) MirrorRemove(_ context.Context, _, lineID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.removes = append(b.removes, lineID)
}

func (b *fakeBridge) MirrorSetQuantity(_ context.Context, _, lineID string, quantity int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.updates[lineID] = quantity
}

func (b *fakeBridge) FetchRemoteLineItemID(_ context.Context, _, variantID string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id, ok := b.lineIDs[variantID]
	return id, ok
}

var _ port.CheckoutBridge = (*fakeBridge)(nil)

func newSession(t *testing.T, store port.SnapshotStore, bridge port.CheckoutBridge) *session.Session {
	t.Helper()

	s, err := session.New(t.Context(), "sess-1", store, bridge, session.WithLogger(zap.NewNop()))
	require.NoError(t, err)
	return s
}

func TestScenarioA_MergeSameVariant(t *testing.T) {
	ctx := t.Context()
	s := newSession(t, repository.NewMemorySnapshots(nil), newFakeBridge())

	require.NoError(t, s.AddToCart(ctx, item("V1", "85.00"), 1))
	require.NoError(t, s.AddToCart(ctx, item("V1", "85.00"), 2))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 3, items[0].Quantity)
	assertMoney(t, "255.00", s.Total())
	assert.Equal(t, 3, s.Count())
}

func TestScenarioB_TotalAndCount(t *testing.T) {
	ctx := t.Context()
	s := newSession(t, repository.NewMemorySnapshots(nil), newFakeBridge())

	require.NoError(t, s.AddToCart(ctx, item("V1", "50"), 1))
	require.NoError(t, s.AddToCart(ctx, item("V2", "30"), 2))

	assertMoney(t, "110", s.Total())
	assert.Equal(t, 3, s.Count())
}

func TestScenarioC_UpdateToZeroEmpties(t *testing.T) {
	ctx := t.Context()
	s := newSession(t, repository.NewMemorySnapshots(nil), newFakeBridge())

	require.NoError(t, s.AddToCart(ctx, item("V1", "10"), 1))
	require.NoError(t, s.UpdateQuantity(ctx, "V1", 0))

	assert.Empty(t, s.Items())
	assert.Zero(t, s.Count())
}

func TestScenarioD_EmptyCheckoutIsNoop(t *testing.T) {
	bridge := newFakeBridge()
	s := newSession(t, repository.NewMemorySnapshots(nil), bridge)

	url, err := s.CreateCheckout(t.Context())
	require.NoError(t, err)

	assert.Empty(t, url)
	assert.Zero(t, bridge.createCalls)
	assert.False(t, s.IsLoading())
	assert.Equal(t, session.Idle, s.State())
}

func TestScenarioE_MirrorFailureKeepsLocalItem(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemorySnapshots(nil)
	require.NoError(t, store.SaveRemoteID(ctx, "sess-1", "remote-gone"))

	// the memory platform rejects every call for an unknown checkout
	bridge := checkout.NewBridge(memory.New(memory.DemoCatalog()...))
	s := newSession(t, store, bridge)
	require.Equal(t, "remote-gone", s.RemoteCheckoutID())

	require.NoError(t, s.AddToCart(ctx, item("ember-tee-M", "30"), 1))
	require.NoError(t, s.UpdateQuantity(ctx, "ember-tee-M", 4))

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, 4, items[0].Quantity)
	assert.False(t, s.IsLoading())
}

func TestMutationsPersistBeforeReload(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemorySnapshots(nil)
	bridge := newFakeBridge()

	s := newSession(t, store, bridge)
	require.NoError(t, s.AddToCart(ctx, item("V1", "10"), 2))
	require.NoError(t, s.AddToCart(ctx, item("V2", "5"), 1))
	require.NoError(t, s.RemoveFromCart(ctx, "V2"))
	s.OpenPanel()

	url, err := s.CreateCheckout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://pay/remote-1", url)

	reloaded := newSession(t, store, bridge)

	diff := cmp.Diff(s.Items(), reloaded.Items(), cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	}))
	assert.Empty(t, diff)
	assert.Equal(t, "remote-1", reloaded.RemoteCheckoutID())
	assert.Equal(t, "sess-1", reloaded.Cart().SessionID)
	assert.Equal(t, "remote-1", reloaded.Cart().RemoteCheckoutID)
	assert.False(t, reloaded.IsPanelOpen(), "panel state is not persisted")
	assert.Empty(t, reloaded.CheckoutURL())
}

func TestMirroringOnlyAfterCheckoutExists(t *testing.T) {
	ctx := t.Context()
	bridge := newFakeBridge()
	s := newSession(t, repository.NewMemorySnapshots(nil), bridge)

	require.NoError(t, s.AddToCart(ctx, item("V1", "10"), 1))
	assert.Empty(t, bridge.adds, "no remote checkout yet")

	_, err := s.CreateCheckout(ctx)
	require.NoError(t, err)

	require.NoError(t, s.AddToCart(ctx, item("V2", "10"), 1))
	require.NoError(t, s.UpdateQuantity(ctx, "V1", 3))
	require.NoError(t, s.RemoveFromCart(ctx, "V2"))
	require.NoError(t, s.RemoveFromCart(ctx, "never-added"))
	require.NoError(t, s.UpdateQuantity(ctx, "never-added", 2))

	assert.Equal(t, []string{"V2"}, bridge.adds)
	assert.Equal(t, map[string]int{"line-V1": 3}, bridge.updates)
	assert.Equal(t, []string{"line-V2"}, bridge.removes)
}

func TestCheckoutFailure(t *testing.T) {
	ctx := t.Context()
	bridge := newFakeBridge()
	bridge.createErr = &domain.RemoteServiceError{Op: "createCheckout", Err: errors.New("unreachable")}
	s := newSession(t, repository.NewMemorySnapshots(nil), bridge)

	require.NoError(t, s.AddToCart(ctx, item("V1", "10"), 2))
	before := s.Items()

	url, err := s.CreateCheckout(ctx)

	var remoteErr *domain.RemoteServiceError
	require.ErrorAs(t, err, &remoteErr)
	assert.Empty(t, url)
	assert.Empty(t, s.RemoteCheckoutID())
	assert.Equal(t, len(before), len(s.Items()))
	assert.Equal(t, session.Idle, s.State(), "checkout can be retried")

	bridge.mu.Lock()
	bridge.createErr = nil
	bridge.mu.Unlock()

	url, err = s.CreateCheckout(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://pay/remote-1", url)
	assert.Equal(t, url, s.CheckoutURL())
}

func TestCheckingOutState(t *testing.T) {
	ctx := t.Context()
	bridge := newFakeBridge()
	bridge.release = make(chan struct{})
	bridge.started = make(chan struct{})
	s := newSession(t, repository.NewMemorySnapshots(nil), bridge)
	require.NoError(t, s.AddToCart(ctx, item("V1", "10"), 1))

	done := make(chan error, 1)
	go func() {
		_, err := s.CreateCheckout(ctx)
		done <- err
	}()

	<-bridge.started
	assert.Equal(t, session.CheckingOut, s.State())
	assert.True(t, s.IsLoading())

	// local mutations are not blocked by the pending checkout
	require.NoError(t, s.AddToCart(ctx, item("V2", "10"), 1))
	assert.Equal(t, 2, s.Count())

	close(bridge.release)
	require.NoError(t, <-done)
	assert.Equal(t, session.Idle, s.State())
}

func TestClearDuringCheckoutDropsRemoteID(t *testing.T) {
	ctx := t.Context()
	bridge := newFakeBridge()
	bridge.release = make(chan struct{})
	bridge.started = make(chan struct{})
	store := repository.NewMemorySnapshots(nil)
	s := newSession(t, store, bridge)
	require.NoError(t, s.AddToCart(ctx, item("V1", "10"), 1))

	done := make(chan error, 1)
	go func() {
		_, err := s.CreateCheckout(ctx)
		done <- err
	}()

	<-bridge.started
	require.NoError(t, s.ClearCart(ctx))
	close(bridge.release)
	require.NoError(t, <-done)

	assert.Empty(t, s.RemoteCheckoutID())
	_, ok, err := store.LoadRemoteID(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestClearCart(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemorySnapshots(nil)
	s := newSession(t, store, newFakeBridge())

	require.NoError(t, s.AddToCart(ctx, item("V1", "10"), 1))
	_, err := s.CreateCheckout(ctx)
	require.NoError(t, err)

	require.NoError(t, s.ClearCart(ctx))

	assert.Empty(t, s.Items())
	assert.Empty(t, s.RemoteCheckoutID())
	assert.Empty(t, s.CheckoutURL())

	items, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, items)
	_, ok, err := store.LoadRemoteID(ctx, "sess-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCheckoutDoesNotClearCart(t *testing.T) {
	ctx := t.Context()
	s := newSession(t, repository.NewMemorySnapshots(nil), newFakeBridge())
	require.NoError(t, s.AddToCart(ctx, item("V1", "10"), 1))

	_, err := s.CreateCheckout(ctx)
	require.NoError(t, err)

	assert.Equal(t, 1, s.Count())
}

func TestAddToCart_Validation(t *testing.T) {
	ctx := t.Context()
	s := newSession(t, repository.NewMemorySnapshots(nil), newFakeBridge())

	negative := item("V1", "10")
	negative.UnitPrice.Amount = decimal.NewFromInt(-1)

	euro := item("V1", "10")
	euro.UnitPrice.Currency = currency.EUR

	tests := []struct {
		name    string
		item    domain.LineItem
		wantErr error
	}{
		{name: "empty variant id", item: item(" ", "10"), wantErr: session.ErrInvalidItem},
		{name: "negative price", item: negative, wantErr: session.ErrInvalidItem},
		{name: "foreign currency", item: euro, wantErr: session.ErrCurrencyMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.AddToCart(ctx, tt.item, 1)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, s.Items())
		})
	}

	t.Run("non-positive quantity is ignored", func(t *testing.T) {
		require.NoError(t, s.AddToCart(ctx, item("V1", "10"), 0))
		require.NoError(t, s.AddToCart(ctx, item("V1", "10"), -3))
		assert.Empty(t, s.Items())
	})
}

func TestNew_DropsForeignCurrencyItems(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemorySnapshots(nil)

	euro := item("V2", "20")
	euro.UnitPrice.Currency = currency.EUR
	euro.Quantity = 1
	usd := item("V1", "10")
	usd.Quantity = 1
	require.NoError(t, store.Save(ctx, "sess-1", []domain.LineItem{usd, euro}))

	s := newSession(t, store, newFakeBridge())

	items := s.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "V1", items[0].VariantID)
}

func TestNew_Errors(t *testing.T) {
	_, err := session.New(t.Context(), "", repository.NewMemorySnapshots(nil), newFakeBridge())
	require.EqualError(t, err, "sessionID is empty")

	_, err = session.New(t.Context(), "s", failingStore{err: errors.New("disk")}, newFakeBridge())
	require.ErrorContains(t, err, "store.Load: disk")
}

func TestSaveFailureIsReturned(t *testing.T) {
	ctx := t.Context()
	bridge := newFakeBridge()
	s := newSession(t, failingStore{saveErr: errors.New("disk full")}, bridge)

	err := s.AddToCart(ctx, item("V1", "10"), 1)
	require.ErrorContains(t, err, "store.Save: disk full")
	assert.Equal(t, session.Idle, s.State())
}

func TestPanel(t *testing.T) {
	s := newSession(t, repository.NewMemorySnapshots(nil), newFakeBridge())

	assert.False(t, s.IsPanelOpen())
	s.OpenPanel()
	assert.True(t, s.IsPanelOpen())
	s.TogglePanel()
	assert.False(t, s.IsPanelOpen())
	s.TogglePanel()
	assert.True(t, s.IsPanelOpen())
	s.ClosePanel()
	assert.False(t, s.IsPanelOpen())
}

func TestConcurrentAdds_NoLostUpdate(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemorySnapshots(nil)
	s := newSession(t, store, newFakeBridge())

	const n = 50
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, s.AddToCart(ctx, item("V1", "1.50"), 1))
		}()
	}
	wg.Wait()

	assert.Equal(t, n, s.Count())
	assertMoney(t, "75", s.Total())

	persisted, err := store.Load(ctx, "sess-1")
	require.NoError(t, err)
	require.Len(t, persisted, 1)
	assert.Equal(t, n, persisted[0].Quantity)
}

func TestSequentialUpdates_LastWriteWins(t *testing.T) {
	ctx := t.Context()
	s := newSession(t, repository.NewMemorySnapshots(nil), newFakeBridge())

	require.NoError(t, s.AddToCart(ctx, item("V1", "10"), 1))
	for _, q := range []int{5, 2, 9, 4} {
		require.NoError(t, s.UpdateQuantity(ctx, "V1", q))
	}

	assert.Equal(t, 4, s.Count())
}

func TestEndToEndWithMemoryPlatform(t *testing.T) {
	ctx := t.Context()
	platform := memory.New(memory.DemoCatalog()...)
	bridge := checkout.NewBridge(platform)
	s := newSession(t, repository.NewMemorySnapshots(nil), bridge)

	require.NoError(t, s.AddToCart(ctx, item("ember-tee-M", "30"), 1))
	url, err := s.CreateCheckout(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, url)

	require.NoError(t, s.AddToCart(ctx, item("ash-cap-OS", "50"), 2))
	require.NoError(t, s.UpdateQuantity(ctx, "ember-tee-M", 3))
	require.NoError(t, s.RemoveFromCart(ctx, "ash-cap-OS"))

	remote, ok, err := platform.FetchCheckoutSession(ctx, s.RemoteCheckoutID())
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, remote.LineItems, 1)
	assert.Equal(t, "ember-tee-M", remote.LineItems[0].VariantID)
	assert.Equal(t, 3, remote.LineItems[0].Quantity)
}

// observingBridge records what the store and the session look like at the
// moment a mirror call reaches the remote side.
type observingBridge struct {
	*fakeBridge

	store   port.SnapshotStore
	session *session.Session

	persisted []domain.LineItem
	loadErr   error
	state     session.State
}

func (b *observingBridge) MirrorAdd(ctx context.Context, checkoutID, variantID string, quantity int) {
	b.persisted, b.loadErr = b.store.Load(ctx, b.session.ID())
	b.state = b.session.State()

	b.fakeBridge.MirrorAdd(ctx, checkoutID, variantID, quantity)
}

func TestMirrorRunsAfterPersistWhileMutating(t *testing.T) {
	ctx := t.Context()
	store := repository.NewMemorySnapshots(nil)
	bridge := &observingBridge{fakeBridge: newFakeBridge(), store: store}

	s := newSession(t, store, bridge)
	bridge.session = s

	require.NoError(t, s.AddToCart(ctx, item("V1", "85.00"), 1))
	_, err := s.CreateCheckout(ctx)
	require.NoError(t, err)

	require.NoError(t, s.AddToCart(ctx, item("V1", "85.00"), 2))

	require.NoError(t, bridge.loadErr)
	require.Len(t, bridge.persisted, 1)
	assert.Equal(t, 3, bridge.persisted[0].Quantity)
	assert.Equal(t, session.Mutating, bridge.state)

	assert.Equal(t, session.Idle, s.State())
	assertMoney(t, "255.00", s.Total())
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", session.Idle.String())
	assert.Equal(t, "mutating", session.Mutating.String())
	assert.Equal(t, "checking_out", session.CheckingOut.String())
}

type failingStore struct {
	port.SnapshotStore
	err     error
	saveErr error
}

func (f failingStore) Load(context.Context, string) ([]domain.LineItem, error) {
	return nil, f.err
}

func (f failingStore) LoadRemoteID(context.Context, string) (string, bool, error) {
	return "", false, f.err
}

func (f failingStore) Save(context.Context, string, []domain.LineItem) error {
	return f.saveErr
}

func item(variantID, price string) domain.LineItem {
	return domain.LineItem{
		VariantID:    variantID,
		ProductID:    gofakeit.UUID(),
		Title:        gofakeit.ProductName(),
		UnitPrice:    domain.Money{Amount: decimal.RequireFromString(price), Currency: currency.USD},
		VariantLabel: "M",
	}
}

func assertMoney(t *testing.T, want string, got domain.Money) {
	t.Helper()

	assert.True(t, decimal.RequireFromString(want).Equal(got.Amount), "want %s, got %s", want, got.Amount)
	assert.Equal(t, currency.USD, got.Currency)
}
