package catalog

import (
	"context"
	"errors"
	"fmt"
	"github.com/nikolayk812/storefront-cart/internal/domain"
	"github.com/nikolayk812/storefront-cart/internal/port"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"strings"
)

const (
	DefaultLimit = 20
	MaxLimit     = 250

	defaultConcurrency = 4
)

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrVariantUnavailable = errors.New("variant unavailable")
)

type Service struct {
	platform    port.CommercePlatform
	logger      *zap.Logger
	concurrency int
}

func New(platform port.CommercePlatform, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		platform:    platform,
		logger:      logger,
		concurrency: defaultConcurrency,
	}
}

// List returns up to limit products. Zero or negative means DefaultLimit;
// anything above MaxLimit is capped.
func (s *Service) List(ctx context.Context, limit int) ([]domain.Product, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	products, err := s.platform.FetchCatalog(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("platform.FetchCatalog: %w", err)
	}

	return products, nil
}

func (s *Service) ByHandle(ctx context.Context, handle string) (domain.Product, error) {
	handle = strings.TrimSpace(handle)
	if handle == "" {
		return domain.Product{}, fmt.Errorf("%w: handle is empty", ErrInvalidInput)
	}

	product, ok, err := s.platform.FetchProductByHandle(ctx, handle)
	if err != nil {
		return domain.Product{}, fmt.Errorf("platform.FetchProductByHandle: %w", err)
	}
	if !ok {
		return domain.Product{}, fmt.Errorf("%w: product[%s]", ErrNotFound, handle)
	}

	return product, nil
}

// ByHandles fetches products concurrently, keeping the order of handles.
// The first failure cancels the rest.
func (s *Service) ByHandles(ctx context.Context, handles []string) ([]domain.Product, error) {
	products := make([]domain.Product, len(handles))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for i, handle := range handles {
		g.Go(func() error {
			product, err := s.ByHandle(ctx, handle)
			if err != nil {
				return err
			}
			products[i] = product
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.logger.Debug("fetched products", zap.Int("count", len(products)))

	return products, nil
}

// LineItemFor builds the cart line for one variant of product with
// quantity 1.
func LineItemFor(product domain.Product, variantID string) (domain.LineItem, error) {
	for _, v := range product.Variants {
		if v.ID != variantID {
			continue
		}

		if !v.Available {
			return domain.LineItem{}, fmt.Errorf("%w: variant[%s]", ErrVariantUnavailable, variantID)
		}

		item := domain.LineItem{
			VariantID:      v.ID,
			ProductID:      product.ID,
			Title:          product.Title,
			UnitPrice:      v.Price,
			CompareAtPrice: v.CompareAtPrice,
			Quantity:       1,
			VariantLabel:   v.Title,
		}
		if len(product.Images) > 0 {
			item.ImageURL = product.Images[0].URL
		}

		return item, nil
	}

	return domain.LineItem{}, fmt.Errorf("%w: variant[%s] in product[%s]", ErrNotFound, variantID, product.Handle)
}
