package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/db"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
)

type pgSlots struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewPostgresSnapshots(pool *pgxpool.Pool, logger *zap.Logger) port.SnapshotStore {
	return newSnapshotStore(&pgSlots{
		q:    db.New(pool),
		pool: pool,
	}, logger)
}

func NewPostgresSnapshotsWithTx(tx pgx.Tx, logger *zap.Logger) port.SnapshotStore {
	return newSnapshotStore(&pgSlots{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}, logger)
}

func (s *pgSlots) get(ctx context.Context, sessionID, slot string) (string, bool, error) {
	value, err := s.q.GetSlot(ctx, db.GetSlotParams{
		SessionID: sessionID,
		Slot:      slot,
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("q.GetSlot: %w", err)
	}

	return value, true, nil
}

func (s *pgSlots) put(ctx context.Context, sessionID, slot, value string) error {
	err := s.q.UpsertSlot(ctx, db.UpsertSlotParams{
		SessionID: sessionID,
		Slot:      slot,
		Value:     value,
	})
	if err != nil {
		return fmt.Errorf("q.UpsertSlot: %w", err)
	}

	return nil
}

func (s *pgSlots) remove(ctx context.Context, sessionID string, names ...string) error {
	_, err := inTx(ctx, s.pool, s.q, func(q *db.Queries) (struct{}, error) {
		for _, slot := range names {
			if _, err := q.DeleteSlot(ctx, db.DeleteSlotParams{
				SessionID: sessionID,
				Slot:      slot,
			}); err != nil {
				return struct{}{}, fmt.Errorf("q.DeleteSlot[%s]: %w", slot, err)
			}
		}

		return struct{}{}, nil
	})

	return err
}
