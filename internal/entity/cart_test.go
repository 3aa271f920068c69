package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotals(t *testing.T) {
	cart := Cart{
		Items: []CartItem{
			{Quantity: 3, UnitPrice: dec("19.99")},
			{Quantity: 1, UnitPrice: dec("5.00")},
		},
	}

	assert.True(t, cart.TotalAmount().Equal(dec("64.97")), "got %s", cart.TotalAmount())
	assert.Equal(t, 4, cart.TotalItems())
}

func TestCartTotalsEmpty(t *testing.T) {
	var cart Cart
	assert.True(t, cart.TotalAmount().IsZero())
	assert.Equal(t, 0, cart.TotalItems())
}

func TestCartItemSubtotal(t *testing.T) {
	item := CartItem{Quantity: 3, UnitPrice: dec("12.50")}
	assert.True(t, item.Subtotal().Equal(dec("37.50")))
}
