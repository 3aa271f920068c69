package service

import (
	"context"

	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/repository"
)

// CartService holds the buyer-facing cart operations. Stock is validated on
// every mutation but only the checkout transaction ever decrements it.
type CartService struct {
	cartRepo repository.CartRepository
}

// NewCartService creates a new instance of CartService.
func NewCartService(cartRepo repository.CartRepository) *CartService {
	return &CartService{cartRepo: cartRepo}
}

// View returns the actor's cart, creating it on first access.
func (s *CartService) View(ctx context.Context, actor *entity.User) (*entity.Cart, error) {
	if err := auth.Authorize(actor, auth.CapShop); err != nil {
		return nil, err
	}
	return s.cartRepo.GetOrCreateCart(ctx, actor.ID)
}

// Add puts quantity units of a product into the cart, summing onto an
// existing line, and returns the updated cart view.
func (s *CartService) Add(ctx context.Context, actor *entity.User, productID, quantity int) (*entity.Cart, error) {
	if err := auth.Authorize(actor, auth.CapShop); err != nil {
		return nil, err
	}
	if err := s.cartRepo.AddItem(ctx, actor.ID, productID, quantity); err != nil {
		logger.Error().Err(err).Msgf("Error adding product %d to cart", productID)
		return nil, err
	}
	return s.cartRepo.GetOrCreateCart(ctx, actor.ID)
}

// Update sets an item's quantity exactly; non-positive quantities remove it.
func (s *CartService) Update(ctx context.Context, actor *entity.User, itemID, quantity int) (*entity.Cart, error) {
	if err := auth.Authorize(actor, auth.CapShop); err != nil {
		return nil, err
	}
	if err := s.cartRepo.UpdateItem(ctx, actor.ID, itemID, quantity); err != nil {
		return nil, err
	}
	return s.cartRepo.GetOrCreateCart(ctx, actor.ID)
}

func (s *CartService) Remove(ctx context.Context, actor *entity.User, itemID int) (*entity.Cart, error) {
	if err := auth.Authorize(actor, auth.CapShop); err != nil {
		return nil, err
	}
	if err := s.cartRepo.RemoveItem(ctx, actor.ID, itemID); err != nil {
		return nil, err
	}
	return s.cartRepo.GetOrCreateCart(ctx, actor.ID)
}

// Clear empties the cart. Clearing an empty cart succeeds.
func (s *CartService) Clear(ctx context.Context, actor *entity.User) (*entity.Cart, error) {
	if err := auth.Authorize(actor, auth.CapShop); err != nil {
		return nil, err
	}
	if err := s.cartRepo.ClearCart(ctx, actor.ID); err != nil {
		return nil, err
	}
	return s.cartRepo.GetOrCreateCart(ctx, actor.ID)
}
