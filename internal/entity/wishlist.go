package entity

import "time"

type Wishlist struct {
	ID        int       `json:"id"`
	BuyerID   int       `json:"buyer_id"`
	Products  []Product `json:"products"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

/*
MySQL Schema:

CREATE TABLE wishlists (
	id INT AUTO_INCREMENT PRIMARY KEY,
	buyer_id INT NOT NULL UNIQUE,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	FOREIGN KEY (buyer_id) REFERENCES users(id) ON DELETE CASCADE
);

CREATE TABLE wishlist_products (
	wishlist_id INT NOT NULL,
	product_id INT NOT NULL,
	PRIMARY KEY (wishlist_id, product_id),
	FOREIGN KEY (wishlist_id) REFERENCES wishlists(id) ON DELETE CASCADE,
	FOREIGN KEY (product_id) REFERENCES products(id) ON DELETE CASCADE
);
*/
