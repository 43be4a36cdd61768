// Package session is the single entry point for cart changes. A Session owns
// one cart: it applies mutations locally, persists them before any network
// call, then mirrors them to the remote checkout when one exists.
package session

import (
	"context"
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/cart"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
	"slices"
	"strings"
	"sync"
)

var (
	ErrInvalidItem      = errors.New("invalid item")
	ErrCurrencyMismatch = errors.New("currency mismatch")
)

type Session struct {
	id       string
	currency currency.Unit
	store    port.SnapshotStore
	bridge   port.CheckoutBridge
	logger   *zap.Logger

	mu          sync.Mutex
	items       []domain.LineItem
	remoteID    string
	checkoutURL string
	panelOpen   bool
	mutating    int
	checkingOut int
	// clears counts ClearCart calls so a checkout started before a clear
	// does not re-attach its remote id to the emptied cart.
	clears uint64
}

type Option func(*Session)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCurrency sets the currency every line item must be priced in.
// The default is USD.
func WithCurrency(unit currency.Unit) Option {
	return func(s *Session) {
		s.currency = unit
	}
}

// New restores the session's cart and remote checkout id from store.
// A malformed snapshot restores as an empty cart.
func New(ctx context.Context, id string, store port.SnapshotStore, bridge port.CheckoutBridge, opts ...Option) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	s := &Session{
		id:       id,
		currency: currency.USD,
		store:    store,
		bridge:   bridge,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(zap.String("session_id", id))

	items, err := store.Load(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.Load: %w", err)
	}

	s.items = slices.DeleteFunc(items, func(it domain.LineItem) bool {
		if it.UnitPrice.Currency != s.currency {
			s.logger.Warn("dropping restored item in foreign currency",
				zap.String("variant_id", it.VariantID),
				zap.Stringer("currency", it.UnitPrice.Currency))
			return true
		}
		return false
	})

	remoteID, ok, err := store.LoadRemoteID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("store.LoadRemoteID: %w", err)
	}
	if ok {
		s.remoteID = remoteID
	}

	s.logger.Debug("session restored",
		zap.Int("items", len(s.items)),
		zap.Bool("remote_checkout", ok))

	return s, nil
}

func (s *Session) ID() string {
	return s.id
}

// AddToCart merges quantity of item into the cart. A non-positive quantity
// is ignored. Remote mirror failures are logged, never returned.
func (s *Session) AddToCart(ctx context.Context, item domain.LineItem, quantity int) error {
	if err := s.validate(item); err != nil {
		return err
	}

	if quantity <= 0 {
		s.logger.Debug("ignoring non-positive add",
			zap.String("variant_id", item.VariantID),
			zap.Int("quantity", quantity))
		return nil
	}

	s.begin()
	defer s.end()

	remoteID, err := s.apply(ctx, func(items []domain.LineItem) []domain.LineItem {
		return cart.AddOrMerge(items, item, quantity)
	})
	if err != nil {
		return err
	}

	if remoteID != "" {
		s.bridge.MirrorAdd(ctx, remoteID, item.VariantID, quantity)
	}

	return nil
}

// RemoveFromCart deletes variantID from the cart; a missing id is a no-op.
func (s *Session) RemoveFromCart(ctx context.Context, variantID string) error {
	s.begin()
	defer s.end()

	var found bool
	remoteID, err := s.apply(ctx, func(items []domain.LineItem) []domain.LineItem {
		_, found = cart.Find(items, variantID)
		return cart.Remove(items, variantID)
	})
	if err != nil {
		return err
	}

	if found && remoteID != "" {
		if lineID, ok := s.bridge.FetchRemoteLineItemID(ctx, remoteID, variantID); ok {
			s.bridge.MirrorRemove(ctx, remoteID, lineID)
		}
	}

	return nil
}

// UpdateQuantity overwrites the quantity of variantID. A non-positive
// quantity removes the item.
func (s *Session) UpdateQuantity(ctx context.Context, variantID string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, variantID)
	}

	s.begin()
	defer s.end()

	var found bool
	remoteID, err := s.apply(ctx, func(items []domain.LineItem) []domain.LineItem {
		_, found = cart.Find(items, variantID)
		return cart.SetQuantity(items, variantID, quantity)
	})
	if err != nil {
		return err
	}

	if found && remoteID != "" {
		if lineID, ok := s.bridge.FetchRemoteLineItemID(ctx, remoteID, variantID); ok {
			s.bridge.MirrorSetQuantity(ctx, remoteID, lineID, quantity)
		}
	}

	return nil
}

// ClearCart empties the cart and forgets the remote checkout. It is never
// called implicitly, including after a checkout hand-off.
func (s *Session) ClearCart(ctx context.Context) error {
	s.begin()
	defer s.end()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = cart.Clear()
	s.remoteID = ""
	s.checkoutURL = ""
	s.clears++

	if err := s.store.Clear(ctx, s.id); err != nil {
		return fmt.Errorf("store.Clear: %w", err)
	}

	return nil
}

// CreateCheckout builds a fresh remote checkout from the current cart and
// returns its payable URL. An empty cart makes no remote call and returns "".
func (s *Session) CreateCheckout(ctx context.Context) (string, error) {
	s.mu.Lock()
	if len(s.items) == 0 {
		s.mu.Unlock()
		return "", nil
	}
	items := slices.Clone(s.items)
	clears := s.clears
	s.checkingOut++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.checkingOut--
		s.mu.Unlock()
	}()

	handoff, err := s.bridge.CreateCheckout(ctx, items)
	if err != nil {
		s.logger.Error("checkout failed", zap.Error(err))
		return "", fmt.Errorf("bridge.CreateCheckout: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.clears != clears {
		s.logger.Info("cart cleared during checkout, not keeping remote checkout",
			zap.String("checkout_id", handoff.CheckoutID))
		return handoff.URL, nil
	}

	s.remoteID = handoff.CheckoutID
	s.checkoutURL = handoff.URL

	if err := s.store.SaveRemoteID(ctx, s.id, handoff.CheckoutID); err != nil {
		// the hand-off URL stays usable; only mirroring after a reload is lost
		s.logger.Warn("persisting remote checkout id failed", zap.Error(err))
	}

	return handoff.URL, nil
}

// Cart returns the items and remote checkout id as one consistent view.
func (s *Session) Cart() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Cart{
		SessionID:        s.id,
		Items:            slices.Clone(s.items),
		RemoteCheckoutID: s.remoteID,
	}
}

func (s *Session) Items() []domain.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.items)
}

func (s *Session) Total() domain.Money {
	s.mu.Lock()
	defer s.mu.Unlock()

	return domain.Money{Amount: cart.Total(s.items), Currency: s.currency}
}

func (s *Session) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return cart.Count(s.items)
}

func (s *Session) CheckoutURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.checkoutURL
}

func (s *Session) RemoteCheckoutID() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.remoteID
}

func (s *Session) OpenPanel() {
	s.setPanel(func(bool) bool { return true })
}

func (s *Session) ClosePanel() {
	s.setPanel(func(bool) bool { return false })
}

func (s *Session) TogglePanel() {
	s.setPanel(func(open bool) bool { return !open })
}

func (s *Session) IsPanelOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.panelOpen
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case s.checkingOut > 0:
		return CheckingOut
	case s.mutating > 0:
		return Mutating
	default:
		return Idle
	}
}

func (s *Session) IsLoading() bool {
	return s.State() != Idle
}

func (s *Session) setPanel(fn func(bool) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.panelOpen = fn(s.panelOpen)
}

// apply runs fn on the items and persists the result under one lock, so
// mutations land in request order. It returns the remote checkout id to
// mirror to, if any.
func (s *Session) apply(ctx context.Context, fn func([]domain.LineItem) []domain.LineItem) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = fn(s.items)

	if err := s.store.Save(ctx, s.id, s.items); err != nil {
		return "", fmt.Errorf("store.Save: %w", err)
	}

	return s.remoteID, nil
}

func (s *Session) begin() {
	s.mu.Lock()
	s.mutating++
	s.mu.Unlock()
}

func (s *Session) end() {
	s.mu.Lock()
	s.mutating--
	s.mu.Unlock()
}

func (s *Session) validate(item domain.LineItem) error {
	if strings.TrimSpace(item.VariantID) == "" {
		return fmt.Errorf("%w: variantID is empty", ErrInvalidItem)
	}

	if item.UnitPrice.Amount.IsNegative() {
		return fmt.Errorf("%w: price[%s] is negative", ErrInvalidItem, item.UnitPrice.Amount)
	}

	if item.UnitPrice.Currency != s.currency {
		return fmt.Errorf("%w: item in %s, cart in %s", ErrCurrencyMismatch, item.UnitPrice.Currency, s.currency)
	}

	return nil
}
