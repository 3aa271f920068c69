package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/segmentio/kafka-go"

	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/repository"
)

// OrderService is a service that provides order-related operations: the
// cart-to-order conversion and the status lifecycle.
type OrderService struct {
	orderRepo   repository.OrderRepository
	kafkaWriter *kafka.Writer
	rdb         *redis.Client
}

// NewOrderService creates a new instance of OrderService. kafkaWriter and
// rdb may be nil, which disables event publishing and idempotency keys.
func NewOrderService(orderRepo repository.OrderRepository, kafkaWriter *kafka.Writer, rdb *redis.Client) *OrderService {
	return &OrderService{
		orderRepo:   orderRepo,
		kafkaWriter: kafkaWriter,
		rdb:         rdb,
	}
}

type CheckoutInput struct {
	ShippingAddress string
	ShippingPhone   string
	Notes           string
	// IdempotencyKey deduplicates retried checkout requests. Empty skips
	// the check.
	IdempotencyKey string
}

// Checkout converts the actor's cart into an order. All stock checks,
// snapshots, decrements and the cart clearing happen inside one repository
// transaction; this layer adds authorization, retry deduplication and event
// publishing.
func (s *OrderService) Checkout(ctx context.Context, actor *entity.User, in CheckoutInput) (*entity.Order, error) {
	if err := auth.Authorize(actor, auth.CapShop); err != nil {
		return nil, err
	}

	if err := s.claimIdempotencyKey(ctx, in.IdempotencyKey); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.CheckoutCart(ctx, actor.ID, repository.CheckoutInfo{
		ShippingAddress: in.ShippingAddress,
		ShippingPhone:   in.ShippingPhone,
		Notes:           in.Notes,
	})
	if err != nil {
		logger.Error().Err(err).Msgf("Error checking out cart for buyer %d", actor.ID)
		// a failed checkout must not burn the key for the corrected retry
		s.releaseIdempotencyKey(ctx, in.IdempotencyKey)
		return nil, err
	}

	logger.Info().Msgf("Order %s created for buyer %d, total %s", order.OrderNumber, actor.ID, order.TotalAmount)

	if err := s.publishOrderEvent(ctx, order, "created"); err != nil {
		logger.Error().Err(err).Msgf("Error publishing created event for order %d", order.ID)
	}

	return order, nil
}

// UpdateStatus transitions an order's status under seller authority: the
// actor must hold the seller role and own at least one item in the order.
// Any recognized status value is accepted from any current state. Stock is
// never touched here.
func (s *OrderService) UpdateStatus(ctx context.Context, actor *entity.User, orderID int, status string) (*entity.Order, error) {
	if err := auth.Authorize(actor, auth.CapUpdateOrderStatus); err != nil {
		return nil, err
	}
	if !entity.ValidOrderStatus(status) {
		return nil, fmt.Errorf("%w: unrecognized status %q", repository.ErrInvalidInput, status)
	}

	// missing orders are not found, not forbidden
	if _, err := s.orderRepo.GetOrderByID(ctx, orderID); err != nil {
		return nil, err
	}

	has, err := s.orderRepo.SellerHasItems(ctx, orderID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, auth.ErrForbidden
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		logger.Error().Err(err).Msgf("Error updating status on order %d", orderID)
		return nil, err
	}

	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if err := s.publishOrderEvent(ctx, order, "status_updated"); err != nil {
		logger.Error().Err(err).Msgf("Error publishing status event for order %d", order.ID)
	}

	return order, nil
}

// List returns the orders visible to the actor: buyers see their own,
// sellers see orders containing at least one of their items.
func (s *OrderService) List(ctx context.Context, actor *entity.User) ([]entity.Order, error) {
	if actor == nil {
		return nil, auth.ErrForbidden
	}
	switch actor.Role {
	case entity.RoleBuyer:
		return s.orderRepo.ListOrdersByBuyer(ctx, actor.ID)
	case entity.RoleSeller:
		return s.orderRepo.ListOrdersBySeller(ctx, actor.ID)
	default:
		return nil, auth.ErrForbidden
	}
}

// Get enforces the same visibility rule as List for a single order.
func (s *OrderService) Get(ctx context.Context, actor *entity.User, orderID int) (*entity.Order, error) {
	if actor == nil {
		return nil, auth.ErrForbidden
	}
	order, err := s.orderRepo.GetOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	switch actor.Role {
	case entity.RoleBuyer:
		if order.BuyerID != actor.ID {
			return nil, repository.ErrNotFound
		}
	case entity.RoleSeller:
		has, err := s.orderRepo.SellerHasItems(ctx, orderID, actor.ID)
		if err != nil {
			return nil, err
		}
		if !has {
			return nil, repository.ErrNotFound
		}
	default:
		return nil, auth.ErrForbidden
	}

	return order, nil
}

// SellerStats returns the order half of the seller dashboard.
func (s *OrderService) SellerStats(ctx context.Context, actor *entity.User) (*repository.SellerOrderStats, error) {
	if err := auth.Authorize(actor, auth.CapManageListings); err != nil {
		return nil, err
	}
	return s.orderRepo.SellerStats(ctx, actor.ID)
}

// claimIdempotencyKey reserves the key for 24 hours; a key seen before
// means this checkout is a duplicate of an earlier request.
func (s *OrderService) claimIdempotencyKey(ctx context.Context, key string) error {
	if key == "" || s.rdb == nil {
		return nil
	}

	ok, err := s.rdb.SetNX(ctx, fmt.Sprintf("idempotency-key:%s", key), "1", 24*time.Hour).Result()
	if err != nil {
		return fmt.Errorf("claim idempotency key: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w: idempotency key already used", repository.ErrDuplicate)
	}
	return nil
}

func (s *OrderService) releaseIdempotencyKey(ctx context.Context, key string) {
	if key == "" || s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, fmt.Sprintf("idempotency-key:%s", key)).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error releasing idempotency key %s", key)
	}
}

func (s *OrderService) publishOrderEvent(ctx context.Context, order *entity.Order, event string) error {
	if s.kafkaWriter == nil {
		return nil
	}

	orderJSON, err := json.Marshal(order)
	if err != nil {
		return err
	}

	// key -> "order.created.50" or "order.status_updated.50"
	msg := kafka.Message{
		Key:   []byte(fmt.Sprintf("order.%s.%d", event, order.ID)),
		Value: orderJSON,
	}

	return s.kafkaWriter.WriteMessages(ctx, msg)
}
