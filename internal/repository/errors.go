package repository

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("resource not found")
	ErrDuplicate    = errors.New("duplicate resource")
	ErrInvalidInput = errors.New("invalid input data")
	ErrEmptyCart    = errors.New("cart is empty")
)

// InsufficientStockError names the product whose stock could not cover the
// requested quantity. Checkout aborts wholesale on the first one.
type InsufficientStockError struct {
	ProductID int
	Title     string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d (%s): requested %d, available %d",
		e.ProductID, e.Title, e.Requested, e.Available)
}
