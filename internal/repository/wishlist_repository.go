package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace-backend/internal/entity"
)

type wishlistRepo struct {
	db *sql.DB
}

func NewWishlistRepository(db *sql.DB) WishlistRepository {
	return &wishlistRepo{db: db}
}

func (r *wishlistRepo) GetOrCreateWishlist(ctx context.Context, buyerID int) (*entity.Wishlist, error) {
	var w entity.Wishlist
	query := `SELECT id, buyer_id, created_at, updated_at FROM wishlists WHERE buyer_id = ?`
	err := r.db.QueryRowContext(ctx, query, buyerID).Scan(&w.ID, &w.BuyerID, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		_, err = r.db.ExecContext(ctx, `INSERT INTO wishlists (buyer_id) VALUES (?)`, buyerID)
		if err != nil && !isDuplicateKey(err) {
			return nil, fmt.Errorf("create wishlist: %w", err)
		}
		err = r.db.QueryRowContext(ctx, query, buyerID).Scan(&w.ID, &w.BuyerID, &w.CreatedAt, &w.UpdatedAt)
	}
	if err != nil {
		return nil, fmt.Errorf("get wishlist for buyer %d: %w", buyerID, err)
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT `+prefixedProductColumns("p")+`
		 FROM wishlist_products wp
		 JOIN products p ON p.id = wp.product_id
		 WHERE wp.wishlist_id = ?`, w.ID)
	if err != nil {
		return nil, fmt.Errorf("load wishlist products: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan wishlist product: %w", err)
		}
		w.Products = append(w.Products, *p)
	}
	return &w, rows.Err()
}

func (r *wishlistRepo) AddProduct(ctx context.Context, buyerID, productID int) error {
	w, err := r.GetOrCreateWishlist(ctx, buyerID)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT IGNORE INTO wishlist_products (wishlist_id, product_id) VALUES (?, ?)`,
		w.ID, productID)
	if err != nil {
		return fmt.Errorf("add product %d to wishlist: %w", productID, err)
	}
	return nil
}

func (r *wishlistRepo) RemoveProduct(ctx context.Context, buyerID, productID int) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE wp FROM wishlist_products wp
		 JOIN wishlists w ON w.id = wp.wishlist_id
		 WHERE w.buyer_id = ? AND wp.product_id = ?`,
		buyerID, productID)
	if err != nil {
		return fmt.Errorf("remove product %d from wishlist: %w", productID, err)
	}
	return nil
}

func prefixedProductColumns(alias string) string {
	return alias + `.id, ` + alias + `.seller_id, ` + alias + `.category_id, ` + alias + `.title, ` +
		alias + `.slug, ` + alias + `.description, ` + alias + `.price, ` + alias + `.discount_price, ` +
		alias + `.stock, ` + alias + `.is_active, ` + alias + `.is_approved, ` + alias + `.is_featured, ` +
		alias + `.created_at, ` + alias + `.updated_at`
}
