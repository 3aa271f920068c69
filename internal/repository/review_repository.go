package repository

import (
	"context"
	"database/sql"
	"fmt"

	"marketplace-backend/internal/entity"
)

type reviewRepo struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) ReviewRepository {
	return &reviewRepo{db: db}
}

func (r *reviewRepo) CreateReview(ctx context.Context, review *entity.Review) (*entity.Review, error) {
	query := `INSERT INTO reviews (product_id, buyer_id, rating, comment, is_verified_purchase) VALUES (?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, review.ProductID, review.BuyerID,
		review.Rating, review.Comment, review.IsVerifiedPurchase)
	if err != nil {
		if isDuplicateKey(err) {
			return nil, fmt.Errorf("review for product %d: %w", review.ProductID, ErrDuplicate)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}

	review.ID = int(id)
	return review, nil
}

func (r *reviewRepo) ListReviewsByProduct(ctx context.Context, productID int) ([]entity.Review, error) {
	query := `SELECT id, product_id, buyer_id, rating, comment, is_verified_purchase, created_at, updated_at
		FROM reviews WHERE product_id = ? ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		return nil, fmt.Errorf("list reviews for product %d: %w", productID, err)
	}
	defer rows.Close()

	var reviews []entity.Review
	for rows.Next() {
		var rv entity.Review
		err := rows.Scan(&rv.ID, &rv.ProductID, &rv.BuyerID, &rv.Rating, &rv.Comment,
			&rv.IsVerifiedPurchase, &rv.CreatedAt, &rv.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	return reviews, rows.Err()
}

// HasDeliveredOrder reports whether any order item ties the buyer and
// product to a delivered order. Drives the verified-purchase flag.
func (r *reviewRepo) HasDeliveredOrder(ctx context.Context, buyerID, productID int) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*)
		 FROM order_items oi
		 JOIN orders o ON o.id = oi.order_id
		 WHERE o.buyer_id = ? AND oi.product_id = ? AND o.status = ?`,
		buyerID, productID, entity.StatusDelivered).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("check delivered orders: %w", err)
	}
	return n > 0, nil
}
