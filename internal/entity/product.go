package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID            int                 `json:"id"`
	SellerID      int                 `json:"seller_id"`
	CategoryID    *int                `json:"category_id,omitempty"`
	Title         string              `json:"title"`
	Slug          string              `json:"slug"`
	Description   string              `json:"description"`
	Price         decimal.Decimal     `json:"price"`
	DiscountPrice decimal.NullDecimal `json:"discount_price,omitempty"`
	Stock         int                 `json:"stock"`
	IsActive      bool                `json:"is_active"`
	IsApproved    bool                `json:"is_approved"`
	IsFeatured    bool                `json:"is_featured"`
	CreatedAt     time.Time           `json:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at"`
}

// FinalPrice returns the discount price when one is set and undercuts the
// list price, otherwise the list price. Cart subtotals always use this live
// value; order items freeze it at checkout.
func (p *Product) FinalPrice() decimal.Decimal {
	if p.DiscountPrice.Valid && p.DiscountPrice.Decimal.LessThan(p.Price) {
		return p.DiscountPrice.Decimal
	}
	return p.Price
}

// DiscountPercentage returns the rounded-down percentage off list price.
func (p *Product) DiscountPercentage() int {
	if !p.DiscountPrice.Valid || !p.DiscountPrice.Decimal.LessThan(p.Price) || p.Price.IsZero() {
		return 0
	}
	off := p.Price.Sub(p.DiscountPrice.Decimal).Div(p.Price).Mul(decimal.NewFromInt(100))
	return int(off.IntPart())
}

// Purchasable reports whether the product is visible to buyers at all.
func (p *Product) Purchasable() bool {
	return p.IsActive && p.IsApproved
}

/*
MySQL Schema:

CREATE TABLE products (
	id INT AUTO_INCREMENT PRIMARY KEY,
	seller_id INT NOT NULL,
	category_id INT,
	title VARCHAR(255) NOT NULL,
	slug VARCHAR(255) NOT NULL UNIQUE,
	description TEXT NOT NULL,
	price DECIMAL(10,2) NOT NULL,
	discount_price DECIMAL(10,2),
	stock INT NOT NULL DEFAULT 0,
	is_active BOOLEAN NOT NULL DEFAULT TRUE,
	is_approved BOOLEAN NOT NULL DEFAULT FALSE,
	is_featured BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	FOREIGN KEY (seller_id) REFERENCES users(id) ON DELETE CASCADE
);
*/
