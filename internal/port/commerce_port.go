package port

import (
	"context"
	"github.com/nikolayk812/storefront-cart/internal/domain"
)

// CommercePlatform is the hosted catalog and checkout service.
// Errors are *domain.RemoteServiceError.
type CommercePlatform interface {
	FetchCatalog(ctx context.Context, limit int) ([]domain.Product, error)
	FetchProductByHandle(ctx context.Context, handle string) (domain.Product, bool, error)

	CreateCheckoutSession(ctx context.Context, lines []domain.CheckoutLineInput) (domain.CheckoutSession, error)
	AddLineItems(ctx context.Context, checkoutID string, lines []domain.CheckoutLineInput) (domain.CheckoutSession, error)
	UpdateLineItems(ctx context.Context, checkoutID string, updates []domain.CheckoutLineUpdate) (domain.CheckoutSession, error)
	RemoveLineItems(ctx context.Context, checkoutID string, lineItemIDs []string) (domain.CheckoutSession, error)
	FetchCheckoutSession(ctx context.Context, checkoutID string) (domain.CheckoutSession, bool, error)
}

// CheckoutBridge mirrors local cart changes onto a remote checkout.
// Mirror calls never fail from the caller's point of view.
type CheckoutBridge interface {
	CreateCheckout(ctx context.Context, items []domain.LineItem) (domain.CheckoutHandoff, error)
	MirrorAdd(ctx context.Context, checkoutID, variantID string, quantity int)
	MirrorRemove(ctx context.Context, checkoutID, remoteLineItemID string)
	MirrorSetQuantity(ctx context.Context, checkoutID, remoteLineItemID string, quantity int)
	FetchRemoteLineItemID(ctx context.Context, checkoutID, variantID string) (string, bool)
}
