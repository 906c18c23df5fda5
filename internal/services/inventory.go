package services

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"shopdesk/internal/models"
	"shopdesk/internal/upstream"
)

// Inventory owns the product and category caches behind the inventory
// view. Both lists are replaced wholesale on every refetch; filtering and
// sorting never touch the cached slices.
type Inventory struct {
	mu     sync.RWMutex
	client *upstream.Client
	logger *slog.Logger

	products   []models.Product
	categories []models.Category
}

func NewInventory(client *upstream.Client, logger *slog.Logger) *Inventory {
	return &Inventory{client: client, logger: logger}
}

// Refresh refetches products and categories. On failure the view falls
// back to empty state; there is no retry.
func (s *Inventory) Refresh(ctx context.Context) error {
	var (
		products   []models.Product
		categories []models.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		products, err = s.client.Products(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = s.client.Categories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("inventory refresh failed", "error", err)
		s.mu.Lock()
		s.products = nil
		s.categories = nil
		s.mu.Unlock()
		return err
	}

	s.mu.Lock()
	s.products = products
	s.categories = categories
	s.mu.Unlock()

	return nil
}

// View returns the product list shaped by the given criteria.
func (s *Inventory) View(c Criteria) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return FilterSort(s.products, c)
}

func (s *Inventory) Products() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Product, len(s.products))
	copy(out, s.products)
	return out
}

func (s *Inventory) Categories() []models.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Category, len(s.categories))
	copy(out, s.categories)
	return out
}

func (s *Inventory) CreateProduct(ctx context.Context, in models.ProductInput) (models.Product, error) {
	p, err := s.client.CreateProduct(ctx, in)
	if err != nil {
		return models.Product{}, err
	}
	s.refetch(ctx)
	return p, nil
}

func (s *Inventory) UpdateProduct(ctx context.Context, id int64, in models.ProductInput) (models.Product, error) {
	p, err := s.client.UpdateProduct(ctx, id, in)
	if err != nil {
		return models.Product{}, err
	}
	s.refetch(ctx)
	return p, nil
}

func (s *Inventory) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.client.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.refetch(ctx)
	return nil
}

func (s *Inventory) CreateCategory(ctx context.Context, in models.CategoryInput) (models.Category, error) {
	c, err := s.client.CreateCategory(ctx, in)
	if err != nil {
		return models.Category{}, err
	}
	s.refetch(ctx)
	return c, nil
}

func (s *Inventory) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.client.DeleteCategory(ctx, id); err != nil {
		return err
	}
	s.refetch(ctx)
	return nil
}

// refetch refreshes the caches after a successful mutation. The mutation
// already succeeded, so a failed refetch is only logged.
func (s *Inventory) refetch(ctx context.Context) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.Warn("refetch after mutation failed", "error", err)
	}
}
