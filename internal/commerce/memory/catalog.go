package memory

import (
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DemoCatalog is the seed catalog used when no storefront is configured.
func DemoCatalog() []domain.Product {
	usd := func(s string) domain.Money {
		return domain.Money{Amount: decimal.RequireFromString(s), Currency: currency.USD}
	}
	compareAt := usd("110.00")

	sized := func(productID, price string, compare *domain.Money, sizes ...string) []domain.Variant {
		out := make([]domain.Variant, 0, len(sizes))
		for _, size := range sizes {
			out = append(out, domain.Variant{
				ID:              productID + "-" + size,
				Title:           size,
				Price:           usd(price),
				CompareAtPrice:  compare,
				Available:       size != "XXL",
				SelectedOptions: []domain.SelectedOption{{Name: "Size", Value: size}},
			})
		}
		return out
	}

	return []domain.Product{
		{
			ID:          "burn-hoodie",
			Title:       "Burn Hoodie",
			Description: "Heavyweight fleece hoodie.",
			Handle:      "burn-hoodie",
			Vendor:      "Burn",
			ProductType: "Hoodies",
			Tags:        []string{"bestseller"},
			Images:      []domain.Image{{URL: "https://cdn.local/burn-hoodie.png", AltText: "Burn Hoodie"}},
			Variants:    sized("burn-hoodie", "85.00", &compareAt, "S", "M", "L", "XXL"),
		},
		{
			ID:          "ember-tee",
			Title:       "Ember Tee",
			Description: "Garment-dyed cotton tee.",
			Handle:      "ember-tee",
			Vendor:      "Burn",
			ProductType: "Shirts",
			Images:      []domain.Image{{URL: "https://cdn.local/ember-tee.png", AltText: "Ember Tee"}},
			Variants:    sized("ember-tee", "30.00", nil, "S", "M", "L"),
		},
		{
			ID:          "ash-cap",
			Title:       "Ash Cap",
			Description: "Six-panel cap.",
			Handle:      "ash-cap",
			Vendor:      "Burn",
			ProductType: "Accessories",
			Variants:    sized("ash-cap", "50.00", nil, "OS"),
		},
	}
}
