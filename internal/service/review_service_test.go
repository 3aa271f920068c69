package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/repository"
)

// The verified flag comes from a delivered order containing the product,
// computed at creation time through the real checkout and status flow.
func TestReviewVerifiedPurchaseFromDeliveredOrder(t *testing.T) {
	store := newMemStore()
	store.addProduct(activeProduct(1, 9, 5, "10.00"))

	carts := NewCartService(store)
	orders := NewOrderService(store, nil, nil)
	reviews := NewReviewService(store, store)
	ctx := context.Background()

	_, err := carts.Add(ctx, buyer(1), 1, 1)
	require.NoError(t, err)
	order, err := orders.Checkout(ctx, buyer(1), CheckoutInput{})
	require.NoError(t, err)
	_, err = orders.UpdateStatus(ctx, seller(9), order.ID, entity.StatusDelivered)
	require.NoError(t, err)

	review, err := reviews.Create(ctx, buyer(1), 1, 5, "arrived intact")
	require.NoError(t, err)
	assert.True(t, review.IsVerifiedPurchase)
}

func TestReviewNotVerifiedBeforeDelivery(t *testing.T) {
	store := newMemStore()
	store.addProduct(activeProduct(1, 9, 5, "10.00"))

	carts := NewCartService(store)
	orders := NewOrderService(store, nil, nil)
	reviews := NewReviewService(store, store)
	ctx := context.Background()

	// ordered but still pending
	_, err := carts.Add(ctx, buyer(1), 1, 1)
	require.NoError(t, err)
	_, err = orders.Checkout(ctx, buyer(1), CheckoutInput{})
	require.NoError(t, err)

	review, err := reviews.Create(ctx, buyer(1), 1, 4, "looks promising")
	require.NoError(t, err)
	assert.False(t, review.IsVerifiedPurchase)

	// never ordered at all
	review, err = reviews.Create(ctx, buyer(2), 1, 3, "")
	require.NoError(t, err)
	assert.False(t, review.IsVerifiedPurchase)
}

func TestReviewOnePerBuyerAndProduct(t *testing.T) {
	store := newMemStore()
	store.addProduct(activeProduct(1, 9, 5, "10.00"))
	reviews := NewReviewService(store, store)
	ctx := context.Background()

	_, err := reviews.Create(ctx, buyer(1), 1, 4, "")
	require.NoError(t, err)
	_, err = reviews.Create(ctx, buyer(1), 1, 2, "changed my mind")
	assert.ErrorIs(t, err, repository.ErrDuplicate)
}

func TestReviewRejectsBadInput(t *testing.T) {
	store := newMemStore()
	store.addProduct(activeProduct(1, 9, 5, "10.00"))
	reviews := NewReviewService(store, store)
	ctx := context.Background()

	_, err := reviews.Create(ctx, buyer(1), 1, 0, "")
	assert.ErrorIs(t, err, repository.ErrInvalidInput)
	_, err = reviews.Create(ctx, buyer(1), 404, 4, "")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = reviews.Create(ctx, seller(9), 1, 4, "")
	assert.Error(t, err)
}
