package domain

type CheckoutLineInput struct {
	VariantID string
	Quantity  int
}

type CheckoutLineUpdate struct {
	LineItemID string
	Quantity   int
}

// CheckoutSession is the platform-hosted checkout resource. Its line items are
// keyed by their own ids, not by variant id.
type CheckoutSession struct {
	ID         string
	PayableURL string
	LineItems  []CheckoutLineItem
}

type CheckoutLineItem struct {
	ID        string
	VariantID string
	Quantity  int
}

// CheckoutHandoff is what a caller needs to send the user to payment.
type CheckoutHandoff struct {
	CheckoutID string
	URL        string
}
