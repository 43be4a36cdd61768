package repository

import (
	"encoding/json"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	slotItems    = "cart"
	slotRemoteID = "checkoutId"
)

type snapshotItem struct {
	VariantID      string  `json:"variantId"`
	ProductID      string  `json:"productId"`
	Title          string  `json:"title"`
	Price          string  `json:"price"`
	CompareAtPrice *string `json:"compareAtPrice,omitempty"`
	Currency       string  `json:"currency"`
	Quantity       int     `json:"quantity"`
	Image          string  `json:"image,omitempty"`
	Variant        string  `json:"variant"`

	// absent in older snapshots, Currency applies then
	CompareAtCurrency string `json:"compareAtCurrency,omitempty"`
}

func encodeItems(items []domain.LineItem) (string, error) {
	out := make([]snapshotItem, 0, len(items))

	for _, it := range items {
		si := snapshotItem{
			VariantID: it.VariantID,
			ProductID: it.ProductID,
			Title:     it.Title,
			Price:     it.UnitPrice.Amount.String(),
			Currency:  it.UnitPrice.Currency.String(),
			Quantity:  it.Quantity,
			Image:     it.ImageURL,
			Variant:   it.VariantLabel,
		}
		if it.CompareAtPrice != nil {
			s := it.CompareAtPrice.Amount.String()
			si.CompareAtPrice = &s
			si.CompareAtCurrency = it.CompareAtPrice.Currency.String()
		}

		out = append(out, si)
	}

	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}

	return string(b), nil
}

func decodeItems(value string) ([]domain.LineItem, error) {
	var raw []snapshotItem
	if err := json.Unmarshal([]byte(value), &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedSnapshot, err)
	}

	seen := make(map[string]struct{}, len(raw))
	items := make([]domain.LineItem, 0, len(raw))

	for i, si := range raw {
		item, err := mapSnapshotItemToDomain(si)
		if err != nil {
			return nil, fmt.Errorf("%w: item[%d]: %w", domain.ErrMalformedSnapshot, i, err)
		}

		if _, ok := seen[item.VariantID]; ok {
			return nil, fmt.Errorf("%w: item[%d]: duplicate variantId[%s]", domain.ErrMalformedSnapshot, i, item.VariantID)
		}
		seen[item.VariantID] = struct{}{}

		items = append(items, item)
	}

	return items, nil
}

func mapSnapshotItemToDomain(si snapshotItem) (domain.LineItem, error) {
	if si.VariantID == "" {
		return domain.LineItem{}, fmt.Errorf("variantId is empty")
	}

	if si.Quantity < 1 {
		return domain.LineItem{}, fmt.Errorf("quantity[%d] is not positive", si.Quantity)
	}

	parsedCurrency, err := currency.ParseISO(si.Currency)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("currency[%s] is not valid: %w", si.Currency, err)
	}

	price, err := parseAmount(si.Price)
	if err != nil {
		return domain.LineItem{}, fmt.Errorf("price: %w", err)
	}

	item := domain.LineItem{
		VariantID:    si.VariantID,
		ProductID:    si.ProductID,
		Title:        si.Title,
		UnitPrice:    domain.Money{Amount: price, Currency: parsedCurrency},
		Quantity:     si.Quantity,
		ImageURL:     si.Image,
		VariantLabel: si.Variant,
	}

	if si.CompareAtPrice != nil {
		compareAt, err := parseAmount(*si.CompareAtPrice)
		if err != nil {
			return domain.LineItem{}, fmt.Errorf("compareAtPrice: %w", err)
		}
		compareAtCurrency := parsedCurrency
		if si.CompareAtCurrency != "" {
			compareAtCurrency, err = currency.ParseISO(si.CompareAtCurrency)
			if err != nil {
				return domain.LineItem{}, fmt.Errorf("compareAtCurrency[%s] is not valid: %w", si.CompareAtCurrency, err)
			}
		}

		item.CompareAtPrice = &domain.Money{Amount: compareAt, Currency: compareAtCurrency}
	}

	return item, nil
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("amount[%s] is not valid: %w", s, err)
	}

	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("amount[%s] is negative", s)
	}

	return d, nil
}

func encodeRemoteID(id string) (string, error) {
	b, err := json.Marshal(id)
	if err != nil {
		return "", fmt.Errorf("json.Marshal: %w", err)
	}
	return string(b), nil
}

func decodeRemoteID(value string) (string, error) {
	var id string
	if err := json.Unmarshal([]byte(value), &id); err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrMalformedSnapshot, err)
	}

	if id == "" {
		return "", fmt.Errorf("%w: checkoutId is empty", domain.ErrMalformedSnapshot)
	}

	return id, nil
}
