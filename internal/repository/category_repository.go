package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"marketplace-backend/internal/entity"
)

type categoryRepo struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) CreateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error) {
	query := `INSERT INTO categories (name, slug, description, parent_id) VALUES (?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, category.Name, category.Slug, category.Description, category.ParentID)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("category %s: %w", category.Name, ErrDuplicate)
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	category.ID = int(id)
	return category, nil
}

func (r *categoryRepo) GetCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	query := `SELECT id, name, slug, COALESCE(description, ''), parent_id, created_at FROM categories WHERE slug = ?`
	var c entity.Category
	err := r.db.QueryRowContext(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category %s: %w", slug, err)
	}
	return &c, nil
}

func (r *categoryRepo) ListCategories(ctx context.Context) ([]entity.Category, error) {
	query := `SELECT id, name, slug, COALESCE(description, ''), parent_id, created_at FROM categories ORDER BY name`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []entity.Category
	for rows.Next() {
		var c entity.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.Description, &c.ParentID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
