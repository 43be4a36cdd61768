package shopify

import (
	"context"
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"strings"
)

func (c *Client) CreateCheckoutSession(ctx context.Context, lines []domain.CheckoutLineInput) (domain.CheckoutSession, error) {
	var data struct {
		Payload cartPayload `json:"cartCreate"`
	}

	vars := map[string]any{"lines": lineInputs(lines)}
	if err := c.do(ctx, "cartCreate", cartCreateMutation, vars, &data); err != nil {
		return domain.CheckoutSession{}, err
	}

	return mapPayloadToDomain("cartCreate", data.Payload)
}

func (c *Client) AddLineItems(ctx context.Context, checkoutID string, lines []domain.CheckoutLineInput) (domain.CheckoutSession, error) {
	var data struct {
		Payload cartPayload `json:"cartLinesAdd"`
	}

	vars := map[string]any{
		"cartId": checkoutID,
		"lines":  lineInputs(lines),
	}
	if err := c.do(ctx, "cartLinesAdd", cartLinesAddMutation, vars, &data); err != nil {
		return domain.CheckoutSession{}, err
	}

	return mapPayloadToDomain("cartLinesAdd", data.Payload)
}

func (c *Client) UpdateLineItems(ctx context.Context, checkoutID string, updates []domain.CheckoutLineUpdate) (domain.CheckoutSession, error) {
	var data struct {
		Payload cartPayload `json:"cartLinesUpdate"`
	}

	lines := make([]map[string]any, 0, len(updates))
	for _, u := range updates {
		lines = append(lines, map[string]any{
			"id":       u.LineItemID,
			"quantity": u.Quantity,
		})
	}

	vars := map[string]any{
		"cartId": checkoutID,
		"lines":  lines,
	}
	if err := c.do(ctx, "cartLinesUpdate", cartLinesUpdateMutation, vars, &data); err != nil {
		return domain.CheckoutSession{}, err
	}

	return mapPayloadToDomain("cartLinesUpdate", data.Payload)
}

func (c *Client) RemoveLineItems(ctx context.Context, checkoutID string, lineItemIDs []string) (domain.CheckoutSession, error) {
	var data struct {
		Payload cartPayload `json:"cartLinesRemove"`
	}

	vars := map[string]any{
		"cartId":  checkoutID,
		"lineIds": lineItemIDs,
	}
	if err := c.do(ctx, "cartLinesRemove", cartLinesRemoveMutation, vars, &data); err != nil {
		return domain.CheckoutSession{}, err
	}

	return mapPayloadToDomain("cartLinesRemove", data.Payload)
}

func (c *Client) FetchCheckoutSession(ctx context.Context, checkoutID string) (domain.CheckoutSession, bool, error) {
	var data struct {
		Cart *cartNode `json:"cart"`
	}

	if err := c.do(ctx, "cart", cartQuery, map[string]any{"id": checkoutID}, &data); err != nil {
		return domain.CheckoutSession{}, false, err
	}

	if data.Cart == nil {
		return domain.CheckoutSession{}, false, nil
	}

	return mapCartToDomain(*data.Cart), true, nil
}

func lineInputs(lines []domain.CheckoutLineInput) []map[string]any {
	out := make([]map[string]any, 0, len(lines))
	for _, l := range lines {
		out = append(out, map[string]any{
			"merchandiseId": l.VariantID,
			"quantity":      l.Quantity,
		})
	}
	return out
}

func mapPayloadToDomain(op string, payload cartPayload) (domain.CheckoutSession, error) {
	if len(payload.UserErrors) > 0 {
		msgs := make([]string, 0, len(payload.UserErrors))
		for _, ue := range payload.UserErrors {
			if len(ue.Field) > 0 {
				msgs = append(msgs, fmt.Sprintf("%s: %s", strings.Join(ue.Field, "."), ue.Message))
				continue
			}
			msgs = append(msgs, ue.Message)
		}
		return domain.CheckoutSession{}, &domain.RemoteServiceError{
			Op:  op,
			Err: fmt.Errorf("rejected: %s", strings.Join(msgs, "; ")),
		}
	}

	if payload.Cart == nil {
		return domain.CheckoutSession{}, malformed(op, errors.New("cart is missing"))
	}

	return mapCartToDomain(*payload.Cart), nil
}
