package service

import (
	"context"

	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/repository"
)

type WishlistService struct {
	wishlistRepo repository.WishlistRepository
	productRepo  repository.ProductRepository
}

// NewWishlistService creates a new instance of WishlistService.
func NewWishlistService(wishlistRepo repository.WishlistRepository, productRepo repository.ProductRepository) *WishlistService {
	return &WishlistService{wishlistRepo: wishlistRepo, productRepo: productRepo}
}

func (s *WishlistService) View(ctx context.Context, actor *entity.User) (*entity.Wishlist, error) {
	if err := auth.Authorize(actor, auth.CapShop); err != nil {
		return nil, err
	}
	return s.wishlistRepo.GetOrCreateWishlist(ctx, actor.ID)
}

func (s *WishlistService) Add(ctx context.Context, actor *entity.User, productID int) (*entity.Wishlist, error) {
	if err := auth.Authorize(actor, auth.CapShop); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !product.IsActive {
		return nil, repository.ErrNotFound
	}

	if err := s.wishlistRepo.AddProduct(ctx, actor.ID, productID); err != nil {
		return nil, err
	}
	return s.wishlistRepo.GetOrCreateWishlist(ctx, actor.ID)
}

func (s *WishlistService) Remove(ctx context.Context, actor *entity.User, productID int) (*entity.Wishlist, error) {
	if err := auth.Authorize(actor, auth.CapShop); err != nil {
		return nil, err
	}
	if err := s.wishlistRepo.RemoveProduct(ctx, actor.ID, productID); err != nil {
		return nil, err
	}
	return s.wishlistRepo.GetOrCreateWishlist(ctx, actor.ID)
}
