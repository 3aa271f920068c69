package entity

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	d, _ := decimal.NewFromString(s)
	return d
}

func nullDec(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: dec(s), Valid: true}
}

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		discount decimal.NullDecimal
		want     string
	}{
		{"no discount", "100.00", decimal.NullDecimal{}, "100.00"},
		{"discount below price", "100.00", nullDec("79.99"), "79.99"},
		{"discount equal to price", "100.00", nullDec("100.00"), "100.00"},
		{"discount above price", "100.00", nullDec("120.00"), "100.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Product{Price: dec(tt.price), DiscountPrice: tt.discount}
			assert.True(t, p.FinalPrice().Equal(dec(tt.want)), "got %s", p.FinalPrice())
		})
	}
}

func TestDiscountPercentage(t *testing.T) {
	p := Product{Price: dec("200.00"), DiscountPrice: nullDec("150.00")}
	assert.Equal(t, 25, p.DiscountPercentage())

	p = Product{Price: dec("200.00")}
	assert.Equal(t, 0, p.DiscountPercentage())

	p = Product{Price: dec("0"), DiscountPrice: nullDec("0")}
	assert.Equal(t, 0, p.DiscountPercentage())
}

func TestPurchasable(t *testing.T) {
	p := Product{IsActive: true, IsApproved: true}
	assert.True(t, p.Purchasable())

	p.IsApproved = false
	assert.False(t, p.Purchasable())

	p = Product{IsActive: false, IsApproved: true}
	assert.False(t, p.Purchasable())
}
