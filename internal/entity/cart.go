package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the one-per-buyer shopping cart. It is created lazily on first
// access and emptied by a successful checkout.
type Cart struct {
	ID        int        `json:"id"`
	BuyerID   int        `json:"buyer_id"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// CartItem carries live product data alongside the stored quantity so that
// subtotals track the current catalog price, not a snapshot.
type CartItem struct {
	ID        int             `json:"id"`
	CartID    int             `json:"cart_id"`
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Title     string          `json:"product_title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Stock     int             `json:"product_stock"`
}

func (i *CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// TotalAmount is the live sum of item subtotals.
func (c *Cart) TotalAmount() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].Subtotal())
	}
	return total
}

// TotalItems is the sum of item quantities.
func (c *Cart) TotalItems() int {
	n := 0
	for i := range c.Items {
		n += c.Items[i].Quantity
	}
	return n
}

/*
MySQL Schema:

CREATE TABLE carts (
	id INT AUTO_INCREMENT PRIMARY KEY,
	buyer_id INT NOT NULL UNIQUE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	FOREIGN KEY (buyer_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE cart_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	cart_id INT NOT NULL,
	product_id INT NOT NULL,
	quantity INT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY cart_product_idx (cart_id, product_id),
	FOREIGN KEY (cart_id) REFERENCES carts(id) ON DELETE CASCADE,
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
);
*/
