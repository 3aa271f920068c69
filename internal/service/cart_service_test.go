package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/repository"
)

func TestCartOnlyBuyersShop(t *testing.T) {
	carts := NewCartService(newMemStore())

	_, err := carts.View(context.Background(), seller(1))
	assert.ErrorIs(t, err, auth.ErrForbidden)
	_, err = carts.Add(context.Background(), &entity.User{ID: 1, Role: entity.RoleAdmin}, 1, 1)
	assert.ErrorIs(t, err, auth.ErrForbidden)
	_, err = carts.Add(context.Background(), nil, 1, 1)
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

func TestCartAddSumsOntoExistingLine(t *testing.T) {
	store := newMemStore()
	store.addProduct(activeProduct(1, 9, 10, "3.50"))
	carts := NewCartService(store)
	ctx := context.Background()

	cart, err := carts.Add(ctx, buyer(1), 1, 2)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)

	cart, err = carts.Add(ctx, buyer(1), 1, 3)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 5, cart.Items[0].Quantity)
	assert.Equal(t, 5, cart.TotalItems())
	assert.Equal(t, "17.50", cart.TotalAmount().StringFixed(2))
}

func TestCartAddBeyondStock(t *testing.T) {
	store := newMemStore()
	store.addProduct(activeProduct(1, 9, 5, "3.50"))
	carts := NewCartService(store)
	ctx := context.Background()

	_, err := carts.Add(ctx, buyer(1), 1, 3)
	require.NoError(t, err)

	_, err = carts.Add(ctx, buyer(1), 1, 3)
	var stockErr *repository.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, 6, stockErr.Requested)
	assert.Equal(t, 5, stockErr.Available)

	// the original line is untouched
	cart, err := carts.View(ctx, buyer(1))
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartAddUnknownOrInactiveProduct(t *testing.T) {
	store := newMemStore()
	inactive := activeProduct(2, 9, 5, "1.00")
	inactive.IsActive = false
	store.addProduct(inactive)
	carts := NewCartService(store)
	ctx := context.Background()

	_, err := carts.Add(ctx, buyer(1), 404, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = carts.Add(ctx, buyer(1), 2, 1)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCartUpdateSetsQuantityExactly(t *testing.T) {
	store := newMemStore()
	store.addProduct(activeProduct(1, 9, 10, "3.50"))
	carts := NewCartService(store)
	ctx := context.Background()

	cart, err := carts.Add(ctx, buyer(1), 1, 2)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	cart, err = carts.Update(ctx, buyer(1), itemID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, cart.Items[0].Quantity)

	// zero removes the line
	cart, err = carts.Update(ctx, buyer(1), itemID, 0)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

func TestCartUpdateBeyondStockLeavesLine(t *testing.T) {
	store := newMemStore()
	store.addProduct(activeProduct(1, 9, 5, "3.50"))
	carts := NewCartService(store)
	ctx := context.Background()

	cart, err := carts.Add(ctx, buyer(1), 1, 3)
	require.NoError(t, err)
	itemID := cart.Items[0].ID

	_, err = carts.Update(ctx, buyer(1), itemID, 6)
	var stockErr *repository.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))

	cart, err = carts.View(ctx, buyer(1))
	require.NoError(t, err)
	assert.Equal(t, 3, cart.Items[0].Quantity)
}

func TestCartRemoveUnknownItem(t *testing.T) {
	carts := NewCartService(newMemStore())

	_, err := carts.Remove(context.Background(), buyer(1), 404)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestCartClearIsIdempotent(t *testing.T) {
	store := newMemStore()
	store.addProduct(activeProduct(1, 9, 10, "3.50"))
	carts := NewCartService(store)
	ctx := context.Background()

	_, err := carts.Add(ctx, buyer(1), 1, 2)
	require.NoError(t, err)

	cart, err := carts.Clear(ctx, buyer(1))
	require.NoError(t, err)
	assert.Empty(t, cart.Items)

	cart, err = carts.Clear(ctx, buyer(1))
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
}

// Live cart lines track current product price; snapshots only happen at
// checkout.
func TestCartSubtotalsFollowPriceChanges(t *testing.T) {
	store := newMemStore()
	store.addProduct(activeProduct(1, 9, 10, "10.00"))
	carts := NewCartService(store)
	ctx := context.Background()

	cart, err := carts.Add(ctx, buyer(1), 1, 2)
	require.NoError(t, err)
	assert.Equal(t, "20.00", cart.TotalAmount().StringFixed(2))

	store.setPrice(1, decimal.RequireFromString("8.00"))
	cart, err = carts.View(ctx, buyer(1))
	require.NoError(t, err)
	assert.Equal(t, "16.00", cart.TotalAmount().StringFixed(2))
}
