package repository_test

import (
	"context"
	"fmt"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"golang.org/x/text/currency"
	"path/filepath"
	"testing"
)

func startPostgres(ctx context.Context) (*postgres.PostgresContainer, string, error) {
	postgresContainer, err := postgres.Run(ctx, "postgres:17.6-alpine3.22",
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			"../migrations/01_cart_snapshots.up.sql"),
	)
	if err != nil {
		return nil, "", fmt.Errorf("postgres.Run: %w", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		return nil, "", fmt.Errorf("pc.ConnectionString: %w", err)
	}

	return postgresContainer, connStr, nil
}

func sqlitePath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "cart.db")
}

func randomLineItems(n int) []domain.LineItem {
	items := make([]domain.LineItem, 0, n)
	for range n {
		items = append(items, randomLineItem())
	}
	return items
}

func randomLineItem() domain.LineItem {
	cur := randomCurrency()

	item := domain.LineItem{
		VariantID:    gofakeit.UUID(),
		ProductID:    gofakeit.UUID(),
		Title:        gofakeit.ProductName(),
		UnitPrice:    domain.Money{Amount: decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2), Currency: cur},
		Quantity:     gofakeit.IntRange(1, 10),
		ImageURL:     gofakeit.URL(),
		VariantLabel: gofakeit.RandomString([]string{"S", "M", "L", "XL"}),
	}

	if gofakeit.Bool() {
		item.CompareAtPrice = &domain.Money{
			Amount:   item.UnitPrice.Amount.Add(decimal.NewFromInt(10)),
			Currency: randomCurrency(),
		}
	}

	return item
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

func assertLineItems(t *testing.T, expected, actual []domain.LineItem) {
	t.Helper()

	currencyComparer := cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	})

	diff := cmp.Diff(expected, actual, currencyComparer)
	assert.Empty(t, diff)
}

func requireEmpty(t *testing.T, items []domain.LineItem, err error) {
	t.Helper()
	require.NoError(t, err)
	assert.Empty(t, items)
}
