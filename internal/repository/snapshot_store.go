package repository

import (
	"context"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
)

// slots is a key-value persistence backend keyed by (sessionID, slot).
type slots interface {
	get(ctx context.Context, sessionID, slot string) (string, bool, error)
	put(ctx context.Context, sessionID, slot, value string) error
	remove(ctx context.Context, sessionID string, names ...string) error
}

type snapshotStore struct {
	slots  slots
	logger *zap.Logger
}

func newSnapshotStore(s slots, logger *zap.Logger) port.SnapshotStore {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &snapshotStore{
		slots:  s,
		logger: logger,
	}
}

func (s *snapshotStore) Load(ctx context.Context, sessionID string) ([]domain.LineItem, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	value, ok, err := s.slots.get(ctx, sessionID, slotItems)
	if err != nil {
		return nil, fmt.Errorf("slots.get: %w", err)
	}
	if !ok {
		return nil, nil
	}

	items, err := decodeItems(value)
	if err != nil {
		s.logger.Warn("discarding cart snapshot",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return nil, nil
	}

	return items, nil
}

func (s *snapshotStore) Save(ctx context.Context, sessionID string, items []domain.LineItem) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	value, err := encodeItems(items)
	if err != nil {
		return fmt.Errorf("encodeItems: %w", err)
	}

	if err := s.slots.put(ctx, sessionID, slotItems, value); err != nil {
		return fmt.Errorf("slots.put: %w", err)
	}

	return nil
}

func (s *snapshotStore) LoadRemoteID(ctx context.Context, sessionID string) (string, bool, error) {
	if sessionID == "" {
		return "", false, fmt.Errorf("sessionID is empty")
	}

	value, ok, err := s.slots.get(ctx, sessionID, slotRemoteID)
	if err != nil {
		return "", false, fmt.Errorf("slots.get: %w", err)
	}
	if !ok {
		return "", false, nil
	}

	id, err := decodeRemoteID(value)
	if err != nil {
		s.logger.Warn("discarding remote checkout id",
			zap.String("session_id", sessionID),
			zap.Error(err))
		return "", false, nil
	}

	return id, true, nil
}

func (s *snapshotStore) SaveRemoteID(ctx context.Context, sessionID string, checkoutID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	if checkoutID == "" {
		return fmt.Errorf("checkoutID is empty")
	}

	value, err := encodeRemoteID(checkoutID)
	if err != nil {
		return fmt.Errorf("encodeRemoteID: %w", err)
	}

	if err := s.slots.put(ctx, sessionID, slotRemoteID, value); err != nil {
		return fmt.Errorf("slots.put: %w", err)
	}

	return nil
}

func (s *snapshotStore) Clear(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("sessionID is empty")
	}

	if err := s.slots.remove(ctx, sessionID, slotItems, slotRemoteID); err != nil {
		return fmt.Errorf("slots.remove: %w", err)
	}

	return nil
}
