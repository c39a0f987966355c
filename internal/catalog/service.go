// Package catalog fronts the platform product API with a small
// read-through cache so browse and add-to-cart don't refetch the
// backend on every request.
package catalog

import (
	"context"
	"io"
	"log"
	"sync"
	"time"

	"storefront-gateway/internal/backend"
	"storefront-gateway/internal/domain"
)

type client interface {
	ProductBySlug(ctx context.Context, slug string) (*domain.Product, error)
	Products(ctx context.Context, page, perPage int) ([]domain.Product, backend.Meta, error)
	SearchProducts(ctx context.Context, query string, page, perPage int) ([]domain.Product, backend.Meta, error)
}

type entry struct {
	product   *domain.Product
	fetchedAt time.Time
}

type Service struct {
	client client
	ttl    time.Duration
	logger *log.Logger
	now    func() time.Time

	mu    sync.Mutex
	cache map[string]entry
}

func New(c client, ttl time.Duration, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &Service{
		client: c,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
		cache:  make(map[string]entry),
	}
}

// BySlug returns the product, served from cache while fresh.
func (s *Service) BySlug(ctx context.Context, slug string) (*domain.Product, error) {
	s.mu.Lock()
	if e, ok := s.cache[slug]; ok && s.now().Sub(e.fetchedAt) < s.ttl {
		s.mu.Unlock()
		return e.product, nil
	}
	s.mu.Unlock()

	p, err := s.client.ProductBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	s.cache[slug] = entry{product: p, fetchedAt: s.now()}
	s.mu.Unlock()
	return p, nil
}

// List passes through; list pages are not cached.
func (s *Service) List(ctx context.Context, page, perPage int) ([]domain.Product, backend.Meta, error) {
	return s.client.Products(ctx, page, perPage)
}

func (s *Service) Search(ctx context.Context, query string, page, perPage int) ([]domain.Product, backend.Meta, error) {
	return s.client.SearchProducts(ctx, query, page, perPage)
}
