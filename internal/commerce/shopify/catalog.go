package shopify

import (
	"context"
	"github.com/nikolayk812/storefront-cart/internal/domain"
)

func (c *Client) FetchCatalog(ctx context.Context, limit int) ([]domain.Product, error) {
	const op = "products"

	var data struct {
		Products connection[productNode] `json:"products"`
	}

	if err := c.do(ctx, op, productsQuery, map[string]any{"first": limit}, &data); err != nil {
		return nil, err
	}

	products := make([]domain.Product, 0, len(data.Products.Edges))
	for _, edge := range data.Products.Edges {
		p, err := mapProductToDomain(edge.Node)
		if err != nil {
			return nil, malformed(op, err)
		}
		products = append(products, p)
	}

	return products, nil
}

func (c *Client) FetchProductByHandle(ctx context.Context, handle string) (domain.Product, bool, error) {
	const op = "product"

	var data struct {
		Product *productNode `json:"product"`
	}

	if err := c.do(ctx, op, productByHandleQuery, map[string]any{"handle": handle}, &data); err != nil {
		return domain.Product{}, false, err
	}

	if data.Product == nil {
		return domain.Product{}, false, nil
	}

	p, err := mapProductToDomain(*data.Product)
	if err != nil {
		return domain.Product{}, false, malformed(op, err)
	}

	return p, true, nil
}
