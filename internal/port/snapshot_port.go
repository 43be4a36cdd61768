package port

import (
	"context"
	"github.com/nikolayk812/storefront-cart/internal/domain"
)

// SnapshotStore persists a cart session's line items and remote checkout id.
// Load returns an empty list for a missing or malformed snapshot.
type SnapshotStore interface {
	Load(ctx context.Context, sessionID string) ([]domain.LineItem, error)
	Save(ctx context.Context, sessionID string, items []domain.LineItem) error
	LoadRemoteID(ctx context.Context, sessionID string) (string, bool, error)
	SaveRemoteID(ctx context.Context, sessionID string, checkoutID string) error
	Clear(ctx context.Context, sessionID string) error
}
