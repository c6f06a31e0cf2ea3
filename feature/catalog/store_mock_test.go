package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func TestStore_DeactivateProducts_MySQL(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET `active`=\\?,`updated_at`=\\? WHERE product_code = \\? AND active = \\?").
		WithArgs(false, sqlmock.AnyArg(), "P1", true).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	n, err := store.DeactivateProducts(context.Background(), "P1")
	assert.NoError(t, err)
	assert.Equal(t, int64(2), n)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_TransactionRollsBackOnDeleteFailure(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE `products` SET").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM `barcodes` WHERE id IN").WillReturnError(errors.New("lock wait timeout"))
	mock.ExpectRollback()

	err := store.Transaction(context.Background(), func(tx Store) error {
		if err := tx.UpdateProduct(context.Background(), "id-1", map[string]any{"description": "after"}); err != nil {
			return err
		}
		return tx.DeleteBarcodes(context.Background(), []string{"b-1", "b-2"})
	})

	assert.ErrorContains(t, err, "failed to delete barcodes")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_FindProductByCodeLocksInsideTransaction(t *testing.T) {
	db, mock := setupMockDB(t)
	store := NewStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT \\* FROM `products` WHERE product_code = \\? AND active = \\? .*FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_code", "active"}).AddRow("id-1", "P1", true))
	mock.ExpectQuery("SELECT \\* FROM `barcodes`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "product_id", "barcode", "quantity"}))
	mock.ExpectCommit()

	err := store.Transaction(context.Background(), func(tx Store) error {
		p, err := tx.FindProductByCode(context.Background(), "P1")
		if err != nil {
			return err
		}
		assert.Equal(t, "id-1", p.ID)
		return nil
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
