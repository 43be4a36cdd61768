package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS cart_snapshots
(
    session_id TEXT      NOT NULL,
    slot       TEXT      NOT NULL,
    value      TEXT      NOT NULL,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (session_id, slot)
)`

// OpenSQLite opens (creating if needed) a snapshot database file at path.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sql.Open: %w", err)
	}

	// single writer keeps slot writes in request order
	sqlDB.SetMaxOpenConns(1)

	for _, stmt := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		sqliteSchema,
	} {
		if _, err := sqlDB.ExecContext(ctx, stmt); err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("sqlDB.ExecContext: %w", err)
		}
	}

	return sqlDB, nil
}

type sqliteSlots struct {
	db *sql.DB
}

func NewSQLiteSnapshots(sqlDB *sql.DB, logger *zap.Logger) port.SnapshotStore {
	return newSnapshotStore(&sqliteSlots{db: sqlDB}, logger)
}

func (s *sqliteSlots) get(ctx context.Context, sessionID, slot string) (string, bool, error) {
	var value string

	err := s.db.QueryRowContext(ctx,
		"SELECT value FROM cart_snapshots WHERE session_id = ? AND slot = ?",
		sessionID, slot,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("db.QueryRowContext: %w", err)
	}

	return value, true, nil
}

func (s *sqliteSlots) put(ctx context.Context, sessionID, slot, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO cart_snapshots (session_id, slot, value) VALUES (?, ?, ?)
		 ON CONFLICT (session_id, slot) DO UPDATE
		 SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		sessionID, slot, value,
	)
	if err != nil {
		return fmt.Errorf("db.ExecContext: %w", err)
	}

	return nil
}

func (s *sqliteSlots) remove(ctx context.Context, sessionID string, names ...string) (txErr error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTx: %w", err)
	}

	defer func() {
		if txErr != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
				txErr = errors.Join(txErr, fmt.Errorf("tx.Rollback: %w", rollbackErr))
			}
		}
	}()

	for _, slot := range names {
		if _, err := tx.ExecContext(ctx,
			"DELETE FROM cart_snapshots WHERE session_id = ? AND slot = ?",
			sessionID, slot,
		); err != nil {
			return fmt.Errorf("tx.ExecContext[%s]: %w", slot, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}
