package mocks

import (
	"context"

	"catalog-sync/feature/catalog"

	"github.com/stretchr/testify/mock"
)

// Store is a mock implementation of catalog.Store.
// Transaction runs the callback against the mock itself.
type Store struct {
	mock.Mock
}

func (m *Store) FindProductByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	p, _ := args.Get(0).(*catalog.Product)
	return p, args.Error(1)
}

func (m *Store) CreateProduct(ctx context.Context, p *catalog.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *Store) UpdateProduct(ctx context.Context, id string, fields map[string]any) error {
	args := m.Called(ctx, id, fields)
	return args.Error(0)
}

func (m *Store) DeactivateProducts(ctx context.Context, code string) (int64, error) {
	args := m.Called(ctx, code)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) CreateBarcode(ctx context.Context, b *catalog.Barcode) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *Store) UpdateBarcode(ctx context.Context, id string, quantity int) error {
	args := m.Called(ctx, id, quantity)
	return args.Error(0)
}

func (m *Store) DeleteBarcodes(ctx context.Context, ids []string) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *Store) Transaction(ctx context.Context, fn func(catalog.Store) error) error {
	m.Called(ctx)
	return fn(m)
}

func (m *Store) ListProducts(ctx context.Context, filter catalog.ListFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	products, _ := args.Get(0).([]catalog.Product)
	return products, args.Error(1)
}
