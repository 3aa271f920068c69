package entity

import "time"

type Category struct {
	ID          int       `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description string    `json:"description,omitempty"`
	ParentID    *int      `json:"parent_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

/*
MySQL Schema:

CREATE TABLE categories (
	id INT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(100) NOT NULL UNIQUE,
	slug VARCHAR(100) NOT NULL UNIQUE,
	description TEXT,
	parent_id INT,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	FOREIGN KEY (parent_id) REFERENCES categories(id) ON DELETE CASCADE
);
*/
