// Package cart holds the pure line item operations behind a cart session.
// None of the functions mutate the slice they are given.
package cart

import (
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"slices"
)

// AddOrMerge increments the quantity of the entry with item.VariantID or
// appends item with the given quantity. A non-positive quantity leaves the
// list unchanged.
func AddOrMerge(items []domain.LineItem, item domain.LineItem, quantity int) []domain.LineItem {
	out := slices.Clone(items)
	if quantity <= 0 {
		return out
	}

	if i := index(out, item.VariantID); i >= 0 {
		out[i].Quantity += quantity
		return out
	}

	item.Quantity = quantity
	return append(out, item)
}

// Remove deletes the entry for variantID. Missing ids are not an error.
func Remove(items []domain.LineItem, variantID string) []domain.LineItem {
	return slices.DeleteFunc(slices.Clone(items), func(it domain.LineItem) bool {
		return it.VariantID == variantID
	})
}

// SetQuantity overwrites the quantity for variantID; quantity <= 0 removes it.
func SetQuantity(items []domain.LineItem, variantID string, quantity int) []domain.LineItem {
	if quantity <= 0 {
		return Remove(items, variantID)
	}

	out := slices.Clone(items)
	if i := index(out, variantID); i >= 0 {
		out[i].Quantity = quantity
	}
	return out
}

func Clear() []domain.LineItem {
	return nil
}

// Total is the sum of unit price times quantity. Currencies are not checked.
func Total(items []domain.LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Amount.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func Count(items []domain.LineItem) int {
	var n int
	for _, it := range items {
		n += it.Quantity
	}
	return n
}

func Find(items []domain.LineItem, variantID string) (domain.LineItem, bool) {
	if i := index(items, variantID); i >= 0 {
		return items[i], true
	}
	return domain.LineItem{}, false
}

func index(items []domain.LineItem, variantID string) int {
	return slices.IndexFunc(items, func(it domain.LineItem) bool {
		return it.VariantID == variantID
	})
}
