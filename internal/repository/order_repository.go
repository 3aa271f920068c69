package repository

import (
	"context"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"marketplace-backend/internal/entity"
)

type orderRepo struct {
	db *sql.DB
}

func NewOrderRepository(db *sql.DB) OrderRepository {
	return &orderRepo{db: db}
}

// newOrderNumber returns a short fixed prefix plus a randomized hex suffix.
// Collisions are vanishingly rare; CheckoutCart regenerates on a unique key
// miss rather than failing.
func newOrderNumber() string {
	id := uuid.New()
	return "MS-" + strings.ToUpper(hex.EncodeToString(id[:])[:12])
}

// CheckoutCart converts the buyer's cart into an order in one transaction.
//
// The cart row is locked first so duplicate concurrent checkouts for the
// same buyer serialize; the joined product rows are locked with it so the
// per-item stock re-check, the snapshot insert and the decrement cannot race
// another checkout touching the same product. Any failure rolls the whole
// unit back: no order, no items, no decrement, cart untouched.
func (r *orderRepo) CheckoutCart(ctx context.Context, buyerID int, info CheckoutInfo) (*entity.Order, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin checkout: %w", err)
	}
	defer tx.Rollback()

	var cartID int
	err = tx.QueryRowContext(ctx, `SELECT id FROM carts WHERE buyer_id = ? FOR UPDATE`, buyerID).Scan(&cartID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// No cart row yet means the buyer never added anything.
			return nil, ErrEmptyCart
		}
		return nil, fmt.Errorf("lock cart for buyer %d: %w", buyerID, err)
	}

	type line struct {
		itemID    int
		productID int
		sellerID  int
		title     string
		quantity  int
		stock     int
		unitPrice decimal.Decimal
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT ci.id, ci.product_id, ci.quantity, p.seller_id, p.title, p.price, p.discount_price, p.stock
		 FROM cart_items ci
		 JOIN products p ON p.id = ci.product_id
		 WHERE ci.cart_id = ?
		 ORDER BY ci.id
		 FOR UPDATE`,
		cartID)
	if err != nil {
		return nil, fmt.Errorf("load cart items: %w", err)
	}

	var lines []line
	for rows.Next() {
		var l line
		var p entity.Product
		err := rows.Scan(&l.itemID, &l.productID, &l.quantity, &l.sellerID, &l.title,
			&p.Price, &p.DiscountPrice, &l.stock)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		l.unitPrice = p.FinalPrice()
		lines = append(lines, l)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate cart items: %w", err)
	}
	rows.Close()

	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// Authoritative stock check under the row locks. The cart's earlier
	// check may be stale by now.
	for _, l := range lines {
		if l.quantity > l.stock {
			return nil, &InsufficientStockError{
				ProductID: l.productID,
				Title:     l.title,
				Requested: l.quantity,
				Available: l.stock,
			}
		}
	}

	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.unitPrice.Mul(decimal.NewFromInt(int64(l.quantity))))
	}

	order := &entity.Order{
		BuyerID:         buyerID,
		Status:          entity.StatusPending,
		TotalAmount:     total,
		ShippingAddress: info.ShippingAddress,
		ShippingPhone:   info.ShippingPhone,
		Notes:           info.Notes,
	}

	insertOrder := `INSERT INTO orders (order_number, buyer_id, status, total_amount, shipping_address, shipping_phone, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	for {
		order.OrderNumber = newOrderNumber()
		res, err := tx.ExecContext(ctx, insertOrder, order.OrderNumber, order.BuyerID,
			order.Status, order.TotalAmount, order.ShippingAddress, order.ShippingPhone, order.Notes)
		if err != nil {
			if isDuplicateKey(err) {
				continue
			}
			return nil, fmt.Errorf("insert order: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		order.ID = int(id)
		break
	}

	insertItem := `INSERT INTO order_items (order_id, product_id, seller_id, quantity, price) VALUES (?, ?, ?, ?, ?)`
	decrement := `UPDATE products SET stock = stock - ? WHERE id = ? AND stock >= ?`

	for _, l := range lines {
		res, err := tx.ExecContext(ctx, insertItem, order.ID, l.productID, l.sellerID, l.quantity, l.unitPrice)
		if err != nil {
			return nil, fmt.Errorf("insert order item for product %d: %w", l.productID, err)
		}
		itemID, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}

		// stock >= ? is a second guard under the lock; a zero-row update
		// means the stock could not cover the quantity.
		dres, err := tx.ExecContext(ctx, decrement, l.quantity, l.productID, l.quantity)
		if err != nil {
			return nil, fmt.Errorf("decrement stock for product %d: %w", l.productID, err)
		}
		if n, _ := dres.RowsAffected(); n == 0 {
			return nil, &InsufficientStockError{
				ProductID: l.productID,
				Title:     l.title,
				Requested: l.quantity,
				Available: l.stock,
			}
		}

		order.Items = append(order.Items, entity.OrderItem{
			ID:        int(itemID),
			OrderID:   order.ID,
			ProductID: l.productID,
			SellerID:  l.sellerID,
			Quantity:  l.quantity,
			Price:     l.unitPrice,
		})
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM cart_items WHERE cart_id = ?`, cartID); err != nil {
		return nil, fmt.Errorf("clear cart %d: %w", cartID, err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}

	return order, nil
}

const orderColumns = `id, order_number, buyer_id, status, total_amount, shipping_address, shipping_phone, COALESCE(notes, ''), created_at, updated_at`

func scanOrder(row interface{ Scan(...any) error }) (*entity.Order, error) {
	var o entity.Order
	err := row.Scan(&o.ID, &o.OrderNumber, &o.BuyerID, &o.Status, &o.TotalAmount,
		&o.ShippingAddress, &o.ShippingPhone, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *orderRepo) GetOrderByID(ctx context.Context, id int) (*entity.Order, error) {
	order, err := scanOrder(r.db.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get order %d: %w", id, err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, order_id, product_id, seller_id, quantity, price, created_at
		 FROM order_items WHERE order_id = ? ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("load order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item entity.OrderItem
		err := rows.Scan(&item.ID, &item.OrderID, &item.ProductID, &item.SellerID,
			&item.Quantity, &item.Price, &item.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

func (r *orderRepo) ListOrdersByBuyer(ctx context.Context, buyerID int) ([]entity.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE buyer_id = ? ORDER BY created_at DESC`
	return r.listOrders(ctx, query, buyerID)
}

// ListOrdersBySeller returns orders containing at least one of the seller's
// items. The order record is returned whole, not item-filtered.
func (r *orderRepo) ListOrdersBySeller(ctx context.Context, sellerID int) ([]entity.Order, error) {
	query := `SELECT DISTINCT o.id, o.order_number, o.buyer_id, o.status, o.total_amount, o.shipping_address, o.shipping_phone, COALESCE(o.notes, ''), o.created_at, o.updated_at
		FROM orders o
		JOIN order_items oi ON oi.order_id = o.id
		WHERE oi.seller_id = ?
		ORDER BY o.created_at DESC`
	return r.listOrders(ctx, query, sellerID)
}

func (r *orderRepo) listOrders(ctx context.Context, query string, arg any) ([]entity.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	var orders []entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, *o)
	}
	return orders, rows.Err()
}

func (r *orderRepo) SellerHasItems(ctx context.Context, orderID, sellerID int) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM order_items WHERE order_id = ? AND seller_id = ?`,
		orderID, sellerID).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check seller items on order %d: %w", orderID, err)
	}
	return n > 0, nil
}

// UpdateOrderStatus writes the status only. It touches neither stock nor
// items: cancellation and refund do not restock.
func (r *orderRepo) UpdateOrderStatus(ctx context.Context, orderID int, status string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ?`, status, orderID)
	if err != nil {
		return fmt.Errorf("update status on order %d: %w", orderID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// SellerStats aggregates the seller dashboard numbers: distinct orders
// containing the seller's items, how many of those are still pending, and
// revenue from the seller's lines in delivered orders.
func (r *orderRepo) SellerStats(ctx context.Context, sellerID int) (*SellerOrderStats, error) {
	stats := &SellerOrderStats{DeliveredRevenue: decimal.Zero}

	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(DISTINCT o.id),
		        COUNT(DISTINCT CASE WHEN o.status = 'pending' THEN o.id END)
		 FROM orders o
		 JOIN order_items oi ON oi.order_id = o.id
		 WHERE oi.seller_id = ?`, sellerID).
		Scan(&stats.TotalOrders, &stats.PendingOrders)
	if err != nil {
		return nil, fmt.Errorf("count seller %d orders: %w", sellerID, err)
	}

	var revenue decimal.NullDecimal
	err = r.db.QueryRowContext(ctx,
		`SELECT SUM(oi.price * oi.quantity)
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE oi.seller_id = ? AND o.status = 'delivered'`, sellerID).
		Scan(&revenue)
	if err != nil {
		return nil, fmt.Errorf("sum seller %d revenue: %w", sellerID, err)
	}
	if revenue.Valid {
		stats.DeliveredRevenue = revenue.Decimal
	}
	return stats, nil
}
