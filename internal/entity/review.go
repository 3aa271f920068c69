package entity

import "time"

// Review is unique per (product, buyer). The verified-purchase flag is set at
// creation time from the buyer's delivered orders and never recomputed.
type Review struct {
	ID                 int       `json:"id"`
	ProductID          int       `json:"product_id"`
	BuyerID            int       `json:"buyer_id"`
	Rating             int       `json:"rating"`
	Comment            string    `json:"comment"`
	IsVerifiedPurchase bool      `json:"is_verified_purchase"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

/*
MySQL Schema:

CREATE TABLE reviews (
	id INT AUTO_INCREMENT PRIMARY KEY,
	product_id INT NOT NULL,
	buyer_id INT NOT NULL,
	rating INT NOT NULL,
	comment TEXT NOT NULL,
	is_verified_purchase BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY product_buyer_idx (product_id, buyer_id),
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE,
	FOREIGN KEY (buyer_id) REFERENCES users(id) ON DELETE CASCADE
);
*/
