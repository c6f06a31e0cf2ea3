package catalog

import (
	"context"
	"errors"

	"go.uber.org/zap"
)

// ErrNotFound is returned when a product code does not exist.
var ErrNotFound = errors.New("product not found")

// Service provides read access to the catalog for the API.
type Service struct {
	store  Store
	logger *zap.Logger
}

// NewService creates a catalog service.
func NewService(store Store, logger *zap.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// List returns products matching filter. Limit is capped at 500.
func (s *Service) List(ctx context.Context, filter ListFilter) ([]Product, error) {
	if filter.Limit <= 0 || filter.Limit > 500 {
		filter.Limit = 500
	}
	return s.store.ListProducts(ctx, filter)
}

// Get returns the current product for code.
func (s *Service) Get(ctx context.Context, code string) (*Product, error) {
	p, err := s.store.FindProductByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p, nil
}
