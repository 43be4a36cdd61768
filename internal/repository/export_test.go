package repository

import (
	"context"
	"github.com/nikolayk812/storefront-cart/internal/port"
)

const (
	SlotItems    = slotItems
	SlotRemoteID = slotRemoteID
)

// PutRawSlot writes value to a slot without encoding it.
func PutRawSlot(ctx context.Context, store port.SnapshotStore, sessionID, slot, value string) error {
	return store.(*snapshotStore).slots.put(ctx, sessionID, slot, value)
}
