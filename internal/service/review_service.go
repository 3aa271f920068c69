package service

import (
	"context"
	"fmt"

	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/repository"
)

type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	productRepo repository.ProductRepository
}

// NewReviewService creates a new instance of ReviewService.
func NewReviewService(reviewRepo repository.ReviewRepository, productRepo repository.ProductRepository) *ReviewService {
	return &ReviewService{reviewRepo: reviewRepo, productRepo: productRepo}
}

// Create stores a review. The verified-purchase flag is computed here, at
// creation time, from the actor's delivered orders and is never recomputed.
func (s *ReviewService) Create(ctx context.Context, actor *entity.User, productID, rating int, comment string) (*entity.Review, error) {
	if err := auth.Authorize(actor, auth.CapShop); err != nil {
		return nil, err
	}
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", repository.ErrInvalidInput)
	}

	if _, err := s.productRepo.GetProductByID(ctx, productID); err != nil {
		return nil, err
	}

	verified, err := s.reviewRepo.HasDeliveredOrder(ctx, actor.ID, productID)
	if err != nil {
		return nil, err
	}

	review := &entity.Review{
		ProductID:          productID,
		BuyerID:            actor.ID,
		Rating:             rating,
		Comment:            comment,
		IsVerifiedPurchase: verified,
	}

	created, err := s.reviewRepo.CreateReview(ctx, review)
	if err != nil {
		logger.Error().Err(err).Msgf("Error creating review for product %d", productID)
		return nil, err
	}
	return created, nil
}

func (s *ReviewService) ListByProduct(ctx context.Context, productID int) ([]entity.Review, error) {
	return s.reviewRepo.ListReviewsByProduct(ctx, productID)
}
