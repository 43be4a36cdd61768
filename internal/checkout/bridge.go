// Package checkout mirrors a local cart onto a platform-hosted checkout and
// creates the payable hand-off link.
//
// Mirror calls are best effort: failures are logged and dropped because the
// local cart stays authoritative and the remote checkout is rebuilt from it
// when the user actually pays.
package checkout

import (
	"context"
	"errors"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
	"time"
)

const DefaultTimeout = 15 * time.Second

var ErrNoLineItems = errors.New("no line items")

type Bridge struct {
	platform port.CommercePlatform
	logger   *zap.Logger
	timeout  time.Duration
}

var _ port.CheckoutBridge = (*Bridge)(nil)

type Option func(*Bridge)

func WithLogger(logger *zap.Logger) Option {
	return func(b *Bridge) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithTimeout bounds every platform call; non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(b *Bridge) {
		if d > 0 {
			b.timeout = d
		}
	}
}

func NewBridge(platform port.CommercePlatform, opts ...Option) *Bridge {
	b := &Bridge{
		platform: platform,
		logger:   zap.NewNop(),
		timeout:  DefaultTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// CreateCheckout creates a fresh remote checkout seeded with items.
// Failures are *domain.RemoteServiceError.
func (b *Bridge) CreateCheckout(ctx context.Context, items []domain.LineItem) (domain.CheckoutHandoff, error) {
	const op = "createCheckout"

	if len(items) == 0 {
		return domain.CheckoutHandoff{}, ErrNoLineItems
	}

	lines := make([]domain.CheckoutLineInput, 0, len(items))
	for _, it := range items {
		lines = append(lines, domain.CheckoutLineInput{
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
		})
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	session, err := b.platform.CreateCheckoutSession(ctx, lines)
	if err != nil {
		return domain.CheckoutHandoff{}, asRemoteError(op, err)
	}

	if session.ID == "" || session.PayableURL == "" {
		return domain.CheckoutHandoff{}, &domain.RemoteServiceError{
			Op:  op,
			Err: errors.New("malformed response: checkout without id or payable url"),
		}
	}

	b.logger.Info("checkout created",
		zap.String("checkout_id", session.ID),
		zap.Int("lines", len(lines)))

	return domain.CheckoutHandoff{
		CheckoutID: session.ID,
		URL:        session.PayableURL,
	}, nil
}

func (b *Bridge) MirrorAdd(ctx context.Context, checkoutID, variantID string, quantity int) {
	if checkoutID == "" || quantity <= 0 {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	_, err := b.platform.AddLineItems(ctx, checkoutID, []domain.CheckoutLineInput{{
		VariantID: variantID,
		Quantity:  quantity,
	}})
	if err != nil {
		b.logger.Warn("mirror add failed",
			zap.String("checkout_id", checkoutID),
			zap.String("variant_id", variantID),
			zap.Error(err))
	}
}

func (b *Bridge) MirrorRemove(ctx context.Context, checkoutID, remoteLineItemID string) {
	if checkoutID == "" || remoteLineItemID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	if _, err := b.platform.RemoveLineItems(ctx, checkoutID, []string{remoteLineItemID}); err != nil {
		b.logger.Warn("mirror remove failed",
			zap.String("checkout_id", checkoutID),
			zap.String("line_item_id", remoteLineItemID),
			zap.Error(err))
	}
}

func (b *Bridge) MirrorSetQuantity(ctx context.Context, checkoutID, remoteLineItemID string, quantity int) {
	if checkoutID == "" || remoteLineItemID == "" {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	_, err := b.platform.UpdateLineItems(ctx, checkoutID, []domain.CheckoutLineUpdate{{
		LineItemID: remoteLineItemID,
		Quantity:   quantity,
	}})
	if err != nil {
		b.logger.Warn("mirror update failed",
			zap.String("checkout_id", checkoutID),
			zap.String("line_item_id", remoteLineItemID),
			zap.Int("quantity", quantity),
			zap.Error(err))
	}
}

// FetchRemoteLineItemID resolves variantID to the remote line id that
// update and remove calls are keyed by.
func (b *Bridge) FetchRemoteLineItemID(ctx context.Context, checkoutID, variantID string) (string, bool) {
	if checkoutID == "" {
		return "", false
	}

	ctx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	session, found, err := b.platform.FetchCheckoutSession(ctx, checkoutID)
	if err != nil {
		b.logger.Warn("fetch checkout failed",
			zap.String("checkout_id", checkoutID),
			zap.Error(err))
		return "", false
	}
	if !found {
		return "", false
	}

	for _, line := range session.LineItems {
		if line.VariantID == variantID {
			return line.ID, true
		}
	}

	return "", false
}

func asRemoteError(op string, err error) error {
	var remoteErr *domain.RemoteServiceError
	if errors.As(err, &remoteErr) {
		return err
	}
	return &domain.RemoteServiceError{Op: op, Err: err}
}
