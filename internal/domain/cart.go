package domain

// LineItem is one purchasable variant and its quantity in a cart.
// VariantID is unique within a cart.
type LineItem struct {
	VariantID      string
	ProductID      string
	Title          string
	UnitPrice      Money
	CompareAtPrice *Money
	Quantity       int
	ImageURL       string
	VariantLabel   string
}

type Cart struct {
	SessionID        string
	Items            []LineItem
	RemoteCheckoutID string
}
