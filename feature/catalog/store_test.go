package catalog

import (
	"context"
	"errors"
	"testing"

	"catalog-sync/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupStore(t *testing.T) (*GormStore, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))
	return NewStore(db), db
}

func price(v int64) *int64 { return &v }

func TestStore_CreateAndFind(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	p := &Product{
		ProductCode: "P1",
		Description: "Red Box",
		Price:       price(1250),
		Active:      true,
		Barcodes:    []Barcode{{Value: "A", Quantity: 2}, {Value: "B", Quantity: 3}},
	}
	require.NoError(t, store.CreateProduct(ctx, p))
	assert.NotEmpty(t, p.ID)

	found, err := store.FindProductByCode(ctx, "P1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, p.ID, found.ID)
	assert.Equal(t, int64(1250), *found.Price)
	assert.Len(t, found.Barcodes, 2)

	missing, err := store.FindProductByCode(ctx, "nope")
	assert.NoError(t, err)
	assert.Nil(t, missing)
}

func TestStore_FindPrefersActive(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateProduct(ctx, &Product{ProductCode: "P1", Description: "old"}))
	require.NoError(t, store.CreateProduct(ctx, &Product{ProductCode: "P1", Description: "current", Active: true}))

	found, err := store.FindProductByCode(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "current", found.Description)
}

func TestStore_FindFallsBackToInactive(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateProduct(ctx, &Product{ProductCode: "P1", Description: "retired"}))

	found, err := store.FindProductByCode(ctx, "P1")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.False(t, found.Active)
}

func TestStore_FindMultipleActive(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateProduct(ctx, &Product{ProductCode: "P1", Active: true}))
	require.NoError(t, store.CreateProduct(ctx, &Product{ProductCode: "P1", Active: true}))

	_, err := store.FindProductByCode(ctx, "P1")
	assert.True(t, errors.Is(err, ErrMultipleActive))
}

func TestStore_UpdateProduct(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	p := &Product{ProductCode: "P1", Description: "before", Active: true}
	require.NoError(t, store.CreateProduct(ctx, p))

	require.NoError(t, store.UpdateProduct(ctx, p.ID, map[string]any{"description": "after", "price": int64(99)}))
	require.NoError(t, store.UpdateProduct(ctx, p.ID, nil))

	found, err := store.FindProductByCode(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "after", found.Description)
	assert.Equal(t, int64(99), *found.Price)
}

func TestStore_DeactivateProducts(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	require.NoError(t, store.CreateProduct(ctx, &Product{ProductCode: "P1", Active: true}))
	require.NoError(t, store.CreateProduct(ctx, &Product{ProductCode: "P2", Active: true}))

	n, err := store.DeactivateProducts(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = store.DeactivateProducts(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	active := true
	products, err := store.ListProducts(ctx, ListFilter{Active: &active})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "P2", products[0].ProductCode)
}

func TestStore_BarcodeLifecycle(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	p := &Product{ProductCode: "P1", Active: true}
	require.NoError(t, store.CreateProduct(ctx, p))

	b := &Barcode{ProductID: p.ID, Value: "A", Quantity: 1}
	require.NoError(t, store.CreateBarcode(ctx, b))
	require.NoError(t, store.UpdateBarcode(ctx, b.ID, 6))

	found, err := store.FindProductByCode(ctx, "P1")
	require.NoError(t, err)
	require.Len(t, found.Barcodes, 1)
	assert.Equal(t, 6, found.Barcodes[0].Quantity)

	require.NoError(t, store.DeleteBarcodes(ctx, []string{b.ID}))
	require.NoError(t, store.DeleteBarcodes(ctx, nil))

	found, err = store.FindProductByCode(ctx, "P1")
	require.NoError(t, err)
	assert.Empty(t, found.Barcodes)
}

func TestStore_TransactionRollback(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	p := &Product{ProductCode: "P1", Description: "before", Active: true}
	require.NoError(t, store.CreateProduct(ctx, p))

	boom := errors.New("boom")
	err := store.Transaction(ctx, func(tx Store) error {
		if err := tx.UpdateProduct(ctx, p.ID, map[string]any{"description": "after"}); err != nil {
			return err
		}
		if err := tx.CreateBarcode(ctx, &Barcode{ProductID: p.ID, Value: "A", Quantity: 1}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	found, err := store.FindProductByCode(ctx, "P1")
	require.NoError(t, err)
	assert.Equal(t, "before", found.Description)
	assert.Empty(t, found.Barcodes)
}

func TestStore_ListProducts(t *testing.T) {
	store, _ := setupStore(t)
	ctx := context.Background()

	for _, code := range []string{"C", "A", "B"} {
		require.NoError(t, store.CreateProduct(ctx, &Product{ProductCode: code, Active: true}))
	}

	products, err := store.ListProducts(ctx, ListFilter{})
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, "A", products[0].ProductCode)

	products, err = store.ListProducts(ctx, ListFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "B", products[0].ProductCode)

	products, err = store.ListProducts(ctx, ListFilter{Code: "C"})
	require.NoError(t, err)
	require.Len(t, products, 1)
}
