package shopify

import (
	"github.com/shopspring/decimal"
)

type connection[T any] struct {
	Edges []struct {
		Node T `json:"node"`
	} `json:"edges"`
}

type money struct {
	Amount       decimal.Decimal `json:"amount"`
	CurrencyCode string          `json:"currencyCode"`
}

type productNode struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Handle      string   `json:"handle"`
	Vendor      string   `json:"vendor"`
	ProductType string   `json:"productType"`
	Tags        []string `json:"tags"`

	Images   connection[imageNode]   `json:"images"`
	Variants connection[variantNode] `json:"variants"`
}

type imageNode struct {
	URL     string  `json:"url"`
	AltText *string `json:"altText"`
}

type variantNode struct {
	ID               string `json:"id"`
	Title            string `json:"title"`
	AvailableForSale bool   `json:"availableForSale"`
	Price            money  `json:"price"`
	CompareAtPrice   *money `json:"compareAtPrice"`
	SelectedOptions  []struct {
		Name  string `json:"name"`
		Value string `json:"value"`
	} `json:"selectedOptions"`
}

type cartNode struct {
	ID          string                   `json:"id"`
	CheckoutURL string                   `json:"checkoutUrl"`
	Lines       connection[cartLineNode] `json:"lines"`
}

type cartLineNode struct {
	ID          string `json:"id"`
	Quantity    int    `json:"quantity"`
	Merchandise struct {
		ID string `json:"id"`
	} `json:"merchandise"`
}

type userError struct {
	Field   []string `json:"field"`
	Message string   `json:"message"`
}

type cartPayload struct {
	Cart       *cartNode   `json:"cart"`
	UserErrors []userError `json:"userErrors"`
}
