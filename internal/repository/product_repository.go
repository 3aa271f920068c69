package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace-backend/internal/entity"
)

type productRepo struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) ProductRepository {
	return &productRepo{db: db}
}

const productColumns = `id, seller_id, category_id, title, slug, description, price, discount_price, stock, is_active, is_approved, is_featured, created_at, updated_at`

func scanProduct(row interface{ Scan(...any) error }) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.SellerID, &p.CategoryID, &p.Title, &p.Slug, &p.Description,
		&p.Price, &p.DiscountPrice, &p.Stock, &p.IsActive, &p.IsApproved, &p.IsFeatured,
		&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepo) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (seller_id, category_id, title, slug, description, price, discount_price, stock, is_active, is_approved, is_featured)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, product.SellerID, product.CategoryID,
		product.Title, product.Slug, product.Description, product.Price, product.DiscountPrice,
		product.Stock, product.IsActive, product.IsApproved, product.IsFeatured)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("slug %s: %w", product.Slug, ErrDuplicate)
		}
		return nil, fmt.Errorf("create product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	product.ID = int(id)
	return product, nil
}

func (r *productRepo) GetProductByID(ctx context.Context, id int) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = ?`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get product %d: %w", id, err)
	}
	return product, nil
}

// UpdateProduct writes listing fields. Stock is set absolutely here by the
// seller's edit; checkout decrements relatively in its own transaction, so
// the two never lose each other's write within a single statement.
func (r *productRepo) UpdateProduct(ctx context.Context, product *entity.Product) error {
	query := `UPDATE products SET category_id = ?, title = ?, description = ?, price = ?, discount_price = ?, stock = ?, is_active = ?, is_featured = ? WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, product.CategoryID, product.Title,
		product.Description, product.Price, product.DiscountPrice, product.Stock,
		product.IsActive, product.IsFeatured, product.ID)
	if err != nil {
		return fmt.Errorf("update product %d: %w", product.ID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// CountSellerProducts returns the seller's total listing count and how
// many of those are live (active and approved).
func (r *productRepo) CountSellerProducts(ctx context.Context, sellerID int) (int, int, error) {
	var total, active int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(SUM(is_active AND is_approved), 0) FROM products WHERE seller_id = ?`,
		sellerID).Scan(&total, &active)
	if err != nil {
		return 0, 0, fmt.Errorf("count seller %d products: %w", sellerID, err)
	}
	return total, active, nil
}

func (r *productRepo) DeleteProduct(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) ListProducts(ctx context.Context, filter ProductFilter) ([]entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	var args []any

	if !filter.IncludeUnapproved {
		query += ` AND is_active = TRUE AND is_approved = TRUE`
	}
	if filter.CategoryID != nil {
		query += ` AND category_id = ?`
		args = append(args, *filter.CategoryID)
	}
	if filter.SellerID != nil {
		query += ` AND seller_id = ?`
		args = append(args, *filter.SellerID)
	}
	if filter.FeaturedOnly {
		query += ` AND is_featured = TRUE`
	}
	if filter.MinPrice != nil {
		query += ` AND price >= ?`
		args = append(args, *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query += ` AND price <= ?`
		args = append(args, *filter.MaxPrice)
	}
	if filter.Search != "" {
		query += ` AND (title LIKE ? OR description LIKE ?)`
		like := "%" + filter.Search + "%"
		args = append(args, like, like)
	}
	query += ` ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *productRepo) ListPendingApproval(ctx context.Context) ([]entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE is_approved = FALSE ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list pending products: %w", err)
	}
	defer rows.Close()

	var products []entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		products = append(products, *p)
	}
	return products, rows.Err()
}

func (r *productRepo) SetApproval(ctx context.Context, id int, active, approved bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE products SET is_active = ?, is_approved = ? WHERE id = ?`, active, approved, id)
	if err != nil {
		return fmt.Errorf("set approval on product %d: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *productRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products WHERE slug = ?`, slug).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return n > 0, nil
}
