package catalog

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrMultipleActive is returned when more than one active product shares a code.
var ErrMultipleActive = errors.New("multiple active products share one code")

// Store is the narrow persistence contract used by reconciliation and the API.
// Every method of a Store handed to a Transaction callback runs inside that transaction.
//
// Inside a transaction FindProductByCode locks the rows it reads, so concurrent
// upserts of an existing code serialize. Nothing in the schema stops two
// transactions from both creating a brand new code; callers serialize writers
// per feed (the pipeline's per-file lock) and the next lookup then reports
// ErrMultipleActive instead of picking one row silently.
type Store interface {
	// FindProductByCode returns the active product for code, or the most recently
	// updated inactive one, with barcodes loaded. It returns nil when none exists.
	FindProductByCode(ctx context.Context, code string) (*Product, error)
	CreateProduct(ctx context.Context, p *Product) error
	UpdateProduct(ctx context.Context, id string, fields map[string]any) error
	// DeactivateProducts marks every active product with code inactive and
	// returns how many rows changed.
	DeactivateProducts(ctx context.Context, code string) (int64, error)
	CreateBarcode(ctx context.Context, b *Barcode) error
	UpdateBarcode(ctx context.Context, id string, quantity int) error
	DeleteBarcodes(ctx context.Context, ids []string) error
	Transaction(ctx context.Context, fn func(Store) error) error
	ListProducts(ctx context.Context, filter ListFilter) ([]Product, error)
}

// ListFilter narrows ListProducts.
type ListFilter struct {
	Code   string
	Active *bool
	Limit  int
	Offset int
}

// GormStore implements Store on top of gorm.
type GormStore struct {
	db *gorm.DB
	// inTx marks a store bound to a transaction; reads there take row locks.
	inTx bool
}

// NewStore creates a gorm backed store.
func NewStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// query starts a statement, locking the selected rows when inside a transaction.
// SQLite has no row locks and its dialect drops the clause.
func (s *GormStore) query(ctx context.Context) *gorm.DB {
	db := s.db.WithContext(ctx)
	if s.inTx {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

func (s *GormStore) FindProductByCode(ctx context.Context, code string) (*Product, error) {
	var active []Product
	err := s.query(ctx).
		Preload("Barcodes").
		Where("product_code = ? AND active = ?", code, true).
		Limit(2).
		Find(&active).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", code, err)
	}

	switch len(active) {
	case 1:
		return &active[0], nil
	case 0:
	default:
		return nil, fmt.Errorf("product %s: %w", code, ErrMultipleActive)
	}

	var inactive []Product
	err = s.query(ctx).
		Preload("Barcodes").
		Where("product_code = ?", code).
		Order("updated_at DESC").
		Limit(1).
		Find(&inactive).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find product %s: %w", code, err)
	}
	if len(inactive) == 0 {
		return nil, nil
	}
	return &inactive[0], nil
}

func (s *GormStore) CreateProduct(ctx context.Context, p *Product) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("failed to create product %s: %w", p.ProductCode, err)
	}
	return nil
}

func (s *GormStore) UpdateProduct(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	result := s.db.WithContext(ctx).Model(&Product{}).Where("id = ?", id).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update product %s: %w", id, result.Error)
	}
	return nil
}

func (s *GormStore) DeactivateProducts(ctx context.Context, code string) (int64, error) {
	result := s.db.WithContext(ctx).
		Model(&Product{}).
		Where("product_code = ? AND active = ?", code, true).
		Update("active", false)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to deactivate products %s: %w", code, result.Error)
	}
	return result.RowsAffected, nil
}

func (s *GormStore) CreateBarcode(ctx context.Context, b *Barcode) error {
	if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
		return fmt.Errorf("failed to create barcode %s: %w", b.Value, err)
	}
	return nil
}

func (s *GormStore) UpdateBarcode(ctx context.Context, id string, quantity int) error {
	result := s.db.WithContext(ctx).Model(&Barcode{}).Where("id = ?", id).Update("quantity", quantity)
	if result.Error != nil {
		return fmt.Errorf("failed to update barcode %s: %w", id, result.Error)
	}
	return nil
}

func (s *GormStore) DeleteBarcodes(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Delete(&Barcode{}).Error; err != nil {
		return fmt.Errorf("failed to delete barcodes: %w", err)
	}
	return nil
}

// Transaction runs fn against a store bound to one database transaction.
// A returned error rolls back every write made through that store.
func (s *GormStore) Transaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx, inTx: true})
	})
}

func (s *GormStore) ListProducts(ctx context.Context, filter ListFilter) ([]Product, error) {
	query := s.db.WithContext(ctx).Preload("Barcodes").Order("product_code ASC")
	if filter.Code != "" {
		query = query.Where("product_code = ?", filter.Code)
	}
	if filter.Active != nil {
		query = query.Where("active = ?", *filter.Active)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}
