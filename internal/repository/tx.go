package repository

import (
	"context"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/storefront-cart/internal/db"
)

// inTx runs fn with queries bound to a new transaction. A nil pool means q is
// already bound to a caller-owned transaction, so fn runs on it directly.
func inTx[T any](ctx context.Context, pool *pgxpool.Pool, q *db.Queries, fn func(q *db.Queries) (T, error)) (T, error) {
	if pool == nil {
		return fn(q)
	}

	var result T

	// BeginFunc rolls back when fn fails and commits otherwise
	err := pgx.BeginFunc(ctx, pool, func(tx pgx.Tx) error {
		var err error
		result, err = fn(q.WithTx(tx))
		return err
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
