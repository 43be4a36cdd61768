// Package memory is an in-process commerce platform for offline runs.
package memory

import (
	"context"
	"fmt"
	"github.com/google/uuid"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"slices"
	"sync"
)

const checkoutBaseURL = "https://checkout.local/"

type Platform struct {
	mu        sync.Mutex
	products  []domain.Product
	variants  map[string]struct{}
	checkouts map[string]*domain.CheckoutSession
}

var _ port.CommercePlatform = (*Platform)(nil)

func New(products ...domain.Product) *Platform {
	variants := make(map[string]struct{})
	for _, p := range products {
		for _, v := range p.Variants {
			variants[v.ID] = struct{}{}
		}
	}

	return &Platform{
		products:  products,
		variants:  variants,
		checkouts: make(map[string]*domain.CheckoutSession),
	}
}

func (p *Platform) FetchCatalog(_ context.Context, limit int) ([]domain.Product, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := min(max(limit, 0), len(p.products))
	return slices.Clone(p.products[:n]), nil
}

func (p *Platform) FetchProductByHandle(_ context.Context, handle string) (domain.Product, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, product := range p.products {
		if product.Handle == handle {
			return product, true, nil
		}
	}
	return domain.Product{}, false, nil
}

func (p *Platform) CreateCheckoutSession(_ context.Context, lines []domain.CheckoutLineInput) (domain.CheckoutSession, error) {
	const op = "cartCreate"

	p.mu.Lock()
	defer p.mu.Unlock()

	id := uuid.NewString()
	session := &domain.CheckoutSession{
		ID:         id,
		PayableURL: checkoutBaseURL + id,
	}

	if err := p.addLines(op, session, lines); err != nil {
		return domain.CheckoutSession{}, err
	}

	p.checkouts[id] = session
	return clone(session), nil
}

func (p *Platform) AddLineItems(_ context.Context, checkoutID string, lines []domain.CheckoutLineInput) (domain.CheckoutSession, error) {
	const op = "cartLinesAdd"

	p.mu.Lock()
	defer p.mu.Unlock()

	session, err := p.checkout(op, checkoutID)
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	// validate into a copy so a rejected request changes nothing
	next := clone(session)
	if err := p.addLines(op, &next, lines); err != nil {
		return domain.CheckoutSession{}, err
	}

	*session = next
	return clone(session), nil
}

func (p *Platform) UpdateLineItems(_ context.Context, checkoutID string, updates []domain.CheckoutLineUpdate) (domain.CheckoutSession, error) {
	const op = "cartLinesUpdate"

	p.mu.Lock()
	defer p.mu.Unlock()

	session, err := p.checkout(op, checkoutID)
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	next := clone(session)
	for _, u := range updates {
		i := slices.IndexFunc(next.LineItems, func(l domain.CheckoutLineItem) bool { return l.ID == u.LineItemID })
		if i < 0 {
			return domain.CheckoutSession{}, rejected(op, "line[%s] not found", u.LineItemID)
		}
		if u.Quantity < 0 {
			return domain.CheckoutSession{}, rejected(op, "quantity[%d] is negative", u.Quantity)
		}
		next.LineItems[i].Quantity = u.Quantity
	}
	next.LineItems = slices.DeleteFunc(next.LineItems, func(l domain.CheckoutLineItem) bool { return l.Quantity == 0 })

	*session = next
	return clone(session), nil
}

func (p *Platform) RemoveLineItems(_ context.Context, checkoutID string, lineItemIDs []string) (domain.CheckoutSession, error) {
	const op = "cartLinesRemove"

	p.mu.Lock()
	defer p.mu.Unlock()

	session, err := p.checkout(op, checkoutID)
	if err != nil {
		return domain.CheckoutSession{}, err
	}

	session.LineItems = slices.DeleteFunc(session.LineItems, func(l domain.CheckoutLineItem) bool {
		return slices.Contains(lineItemIDs, l.ID)
	})

	return clone(session), nil
}

func (p *Platform) FetchCheckoutSession(_ context.Context, checkoutID string) (domain.CheckoutSession, bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	session, ok := p.checkouts[checkoutID]
	if !ok {
		return domain.CheckoutSession{}, false, nil
	}
	return clone(session), true, nil
}

func (p *Platform) checkout(op, checkoutID string) (*domain.CheckoutSession, error) {
	session, ok := p.checkouts[checkoutID]
	if !ok {
		return nil, rejected(op, "cart[%s] not found", checkoutID)
	}
	return session, nil
}

// addLines merges lines by variant the way a hosted cart does.
func (p *Platform) addLines(op string, session *domain.CheckoutSession, lines []domain.CheckoutLineInput) error {
	for _, l := range lines {
		if _, ok := p.variants[l.VariantID]; !ok {
			return rejected(op, "merchandise[%s] does not exist", l.VariantID)
		}
		if l.Quantity <= 0 {
			return rejected(op, "quantity[%d] is not positive", l.Quantity)
		}

		i := slices.IndexFunc(session.LineItems, func(li domain.CheckoutLineItem) bool { return li.VariantID == l.VariantID })
		if i >= 0 {
			session.LineItems[i].Quantity += l.Quantity
			continue
		}

		session.LineItems = append(session.LineItems, domain.CheckoutLineItem{
			ID:        uuid.NewString(),
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
		})
	}
	return nil
}

func rejected(op, format string, args ...any) error {
	return &domain.RemoteServiceError{Op: op, Err: fmt.Errorf(format, args...)}
}

func clone(s *domain.CheckoutSession) domain.CheckoutSession {
	out := *s
	out.LineItems = slices.Clone(s.LineItems)
	return out
}
