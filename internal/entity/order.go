package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipped    = "shipped"
	StatusInTransit  = "in_transit"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
	StatusRefunded   = "refunded"
)

var orderStatuses = map[string]bool{
	StatusPending:    true,
	StatusConfirmed:  true,
	StatusProcessing: true,
	StatusShipped:    true,
	StatusInTransit:  true,
	StatusDelivered:  true,
	StatusCancelled:  true,
	StatusRefunded:   true,
}

// ValidOrderStatus reports whether s is one of the recognized status values.
// Transitions between recognized values are otherwise unconstrained.
func ValidOrderStatus(s string) bool {
	return orderStatuses[s]
}

// Order is immutable once created except for its status.
type Order struct {
	ID              int             `json:"id"`
	OrderNumber     string          `json:"order_number"`
	BuyerID         int             `json:"buyer_id"`
	Status          string          `json:"status"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	ShippingAddress string          `json:"shipping_address"`
	ShippingPhone   string          `json:"shipping_phone"`
	Notes           string          `json:"notes,omitempty"`
	Items           []OrderItem     `json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OrderItem snapshots product, seller and unit price at checkout time.
// Later catalog edits never touch these rows.
type OrderItem struct {
	ID        int             `json:"id"`
	OrderID   int             `json:"order_id"`
	ProductID int             `json:"product_id"`
	SellerID  int             `json:"seller_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	CreatedAt time.Time       `json:"created_at"`
}

func (i *OrderItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

/*
MySQL Schema:

CREATE TABLE orders (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_number VARCHAR(50) NOT NULL UNIQUE,
	buyer_id INT NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'pending',
	total_amount DECIMAL(10,2) NOT NULL,
	shipping_address TEXT NOT NULL,
	shipping_phone VARCHAR(20) NOT NULL,
	notes TEXT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	FOREIGN KEY (buyer_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE order_items (
	id INT AUTO_INCREMENT PRIMARY KEY,
	order_id INT NOT NULL,
	product_id INT NOT NULL,
	seller_id INT NOT NULL,
	quantity INT NOT NULL,
	price DECIMAL(10,2) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (order_id) REFERENCES orders(id) ON DELETE CASCADE
);
*/
