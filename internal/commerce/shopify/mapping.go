package shopify

import (
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"golang.org/x/text/currency"
)

func malformed(op string, err error) error {
	return &domain.RemoteServiceError{Op: op, Err: fmt.Errorf("malformed response: %w", err)}
}

func mapProductToDomain(p productNode) (domain.Product, error) {
	out := domain.Product{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Handle:      p.Handle,
		Vendor:      p.Vendor,
		ProductType: p.ProductType,
		Tags:        p.Tags,
	}

	for _, edge := range p.Images.Edges {
		img := domain.Image{URL: edge.Node.URL, AltText: p.Title}
		if edge.Node.AltText != nil && *edge.Node.AltText != "" {
			img.AltText = *edge.Node.AltText
		}
		out.Images = append(out.Images, img)
	}

	for _, edge := range p.Variants.Edges {
		v, err := mapVariantToDomain(edge.Node)
		if err != nil {
			return domain.Product{}, fmt.Errorf("variant[%s]: %w", edge.Node.ID, err)
		}
		out.Variants = append(out.Variants, v)
	}

	return out, nil
}

func mapVariantToDomain(v variantNode) (domain.Variant, error) {
	price, err := mapMoneyToDomain(v.Price)
	if err != nil {
		return domain.Variant{}, fmt.Errorf("price: %w", err)
	}

	out := domain.Variant{
		ID:        v.ID,
		Title:     v.Title,
		Price:     price,
		Available: v.AvailableForSale,
	}

	if v.CompareAtPrice != nil {
		compareAt, err := mapMoneyToDomain(*v.CompareAtPrice)
		if err != nil {
			return domain.Variant{}, fmt.Errorf("compareAtPrice: %w", err)
		}
		out.CompareAtPrice = &compareAt
	}

	for _, o := range v.SelectedOptions {
		out.SelectedOptions = append(out.SelectedOptions, domain.SelectedOption{Name: o.Name, Value: o.Value})
	}

	return out, nil
}

func mapMoneyToDomain(m money) (domain.Money, error) {
	parsedCurrency, err := currency.ParseISO(m.CurrencyCode)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", m.CurrencyCode, err)
	}

	return domain.Money{Amount: m.Amount, Currency: parsedCurrency}, nil
}

func mapCartToDomain(c cartNode) domain.CheckoutSession {
	out := domain.CheckoutSession{
		ID:         c.ID,
		PayableURL: c.CheckoutURL,
	}

	for _, edge := range c.Lines.Edges {
		out.LineItems = append(out.LineItems, domain.CheckoutLineItem{
			ID:        edge.Node.ID,
			VariantID: edge.Node.Merchandise.ID,
			Quantity:  edge.Node.Quantity,
		})
	}

	return out
}
