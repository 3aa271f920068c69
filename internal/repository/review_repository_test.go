package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/entity"
)

func newReviewMock(t *testing.T) (sqlmock.Sqlmock, ReviewRepository, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	repo := NewReviewRepository(db)
	return mock, repo, func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	}
}

// Only delivered orders count toward the verified flag: the query is
// pinned to filter on the delivered status.
func TestHasDeliveredOrderFiltersOnStatus(t *testing.T) {
	mock, repo, done := newReviewMock(t)
	defer done()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs(1, 100, entity.StatusDelivered).
		WillReturnRows(mock.NewRows([]string{"n"}).AddRow(1))

	has, err := repo.HasDeliveredOrder(context.Background(), 1, 100)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestHasDeliveredOrderNone(t *testing.T) {
	mock, repo, done := newReviewMock(t)
	defer done()

	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs(2, 100, entity.StatusDelivered).
		WillReturnRows(mock.NewRows([]string{"n"}).AddRow(0))

	has, err := repo.HasDeliveredOrder(context.Background(), 2, 100)
	require.NoError(t, err)
	assert.False(t, has)
}
