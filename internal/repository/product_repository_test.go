package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/entity"
)

func newProductMock(t *testing.T) (sqlmock.Sqlmock, ProductRepository, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := NewProductRepository(db)
	return mock, repo, func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}

// A seller edit writes the stock column, so restocking a sold-out listing
// takes effect.
func TestUpdateProductWritesStock(t *testing.T) {
	mock, repo, done := newProductMock(t)
	defer done()

	mock.ExpectExec("UPDATE products SET category_id = \\?, title = \\?, description = \\?, price = \\?, discount_price = \\?, stock = \\?, is_active = \\?, is_featured = \\?").
		WithArgs(nil, "Widget", "restocked", "19.99", nil, 50, true, false, 100).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.UpdateProduct(context.Background(), &entity.Product{
		ID:          100,
		Title:       "Widget",
		Description: "restocked",
		Price:       decimal.RequireFromString("19.99"),
		Stock:       50,
		IsActive:    true,
	})
	require.NoError(t, err)
}

func TestUpdateProductNotFound(t *testing.T) {
	mock, repo, done := newProductMock(t)
	defer done()

	mock.ExpectExec("UPDATE products SET").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateProduct(context.Background(), &entity.Product{ID: 404, Title: "gone"})
	assert.ErrorIs(t, err, ErrNotFound)
}
