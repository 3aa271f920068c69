package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace-backend/internal/entity"
)

type cartRepo struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) CartRepository {
	return &cartRepo{db: db}
}

func (r *cartRepo) GetOrCreateCart(ctx context.Context, buyerID int) (*entity.Cart, error) {
	cart, err := r.findCart(ctx, r.db, buyerID)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = r.db.ExecContext(ctx, `INSERT INTO carts (buyer_id) VALUES (?)`, buyerID)
		if err != nil && !isDuplicateKey(err) {
			return nil, fmt.Errorf("create cart: %w", err)
		}
		cart, err = r.findCart(ctx, r.db, buyerID)
	}
	if err != nil {
		return nil, fmt.Errorf("get cart for buyer %d: %w", buyerID, err)
	}

	if err := r.loadItems(ctx, cart); err != nil {
		return nil, err
	}
	return cart, nil
}

type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *cartRepo) findCart(ctx context.Context, q querier, buyerID int) (*entity.Cart, error) {
	var cart entity.Cart
	err := q.QueryRowContext(ctx, `SELECT id, buyer_id, created_at, updated_at FROM carts WHERE buyer_id = ?`, buyerID).
		Scan(&cart.ID, &cart.BuyerID, &cart.CreatedAt, &cart.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *cartRepo) loadItems(ctx context.Context, cart *entity.Cart) error {
	query := `SELECT ci.id, ci.cart_id, ci.product_id, ci.quantity, p.title, p.price, p.discount_price, p.stock
		FROM cart_items ci
		JOIN products p ON p.id = ci.product_id
		WHERE ci.cart_id = ?
		ORDER BY ci.id`

	rows, err := r.db.QueryContext(ctx, query, cart.ID)
	if err != nil {
		return fmt.Errorf("load cart items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.CartItem
		var p entity.Product
		err := rows.Scan(&item.ID, &item.CartID, &item.ProductID, &item.Quantity,
			&item.Title, &p.Price, &p.DiscountPrice, &item.Stock)
		if err != nil {
			return fmt.Errorf("scan cart item: %w", err)
		}
		item.UnitPrice = p.FinalPrice()
		cart.Items = append(cart.Items, item)
	}
	return rows.Err()
}

// AddItem sums the requested quantity onto an existing line for the same
// product. The stock check and the write happen in one transaction so a
// concurrent catalog edit cannot slip between them.
func (r *cartRepo) AddItem(ctx context.Context, buyerID, productID, quantity int) error {
	if quantity < 1 {
		return fmt.Errorf("%w: quantity must be at least 1", ErrInvalidInput)
	}

	cart, err := r.GetOrCreateCart(ctx, buyerID)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin add item: %w", err)
	}
	defer tx.Rollback()

	var title string
	var stock int
	err = tx.QueryRowContext(ctx,
		`SELECT title, stock FROM products WHERE id = ? AND is_active = TRUE AND is_approved = TRUE FOR UPDATE`,
		productID).Scan(&title, &stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load product %d: %w", productID, err)
	}

	existing := 0
	err = tx.QueryRowContext(ctx,
		`SELECT quantity FROM cart_items WHERE cart_id = ? AND product_id = ? FOR UPDATE`,
		cart.ID, productID).Scan(&existing)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("load cart item: %w", err)
	}

	total := existing + quantity
	if total > stock {
		return &InsufficientStockError{ProductID: productID, Title: title, Requested: total, Available: stock}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO cart_items (cart_id, product_id, quantity) VALUES (?, ?, ?)
		 ON DUPLICATE KEY UPDATE quantity = ?`,
		cart.ID, productID, total, total)
	if err != nil {
		return fmt.Errorf("upsert cart item: %w", err)
	}

	return tx.Commit()
}

// UpdateItem sets the quantity exactly. A non-positive quantity removes the
// line, which is treated as removal rather than an error.
func (r *cartRepo) UpdateItem(ctx context.Context, buyerID, itemID, quantity int) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update item: %w", err)
	}
	defer tx.Rollback()

	var productID, stock int
	var title string
	err = tx.QueryRowContext(ctx,
		`SELECT ci.product_id, p.title, p.stock
		 FROM cart_items ci
		 JOIN carts c ON c.id = ci.cart_id
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.id = ? AND c.buyer_id = ? FOR UPDATE`,
		itemID, buyerID).Scan(&productID, &title, &stock)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return fmt.Errorf("load cart item %d: %w", itemID, err)
	}

	if quantity <= 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE id = ?`, itemID); err != nil {
			return fmt.Errorf("delete cart item %d: %w", itemID, err)
		}
		return tx.Commit()
	}

	if quantity > stock {
		return &InsufficientStockError{ProductID: productID, Title: title, Requested: quantity, Available: stock}
	}

	if _, err := tx.ExecContext(ctx, `UPDATE cart_items SET quantity = ? WHERE id = ?`, quantity, itemID); err != nil {
		return fmt.Errorf("update cart item %d: %w", itemID, err)
	}

	return tx.Commit()
}

func (r *cartRepo) RemoveItem(ctx context.Context, buyerID, itemID int) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE ci FROM cart_items ci
		 JOIN carts c ON c.id = ci.cart_id
		 WHERE ci.id = ? AND c.buyer_id = ?`,
		itemID, buyerID)
	if err != nil {
		return fmt.Errorf("remove cart item %d: %w", itemID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// ClearCart is idempotent: clearing an already empty cart succeeds.
func (r *cartRepo) ClearCart(ctx context.Context, buyerID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE ci FROM cart_items ci
		 JOIN carts c ON c.id = ci.cart_id
		 WHERE c.buyer_id = ?`,
		buyerID)
	if err != nil {
		return fmt.Errorf("clear cart for buyer %d: %w", buyerID, err)
	}
	return nil
}
