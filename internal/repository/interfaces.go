package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"marketplace-backend/internal/entity"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *entity.User) (*entity.User, error)
	GetUserByID(ctx context.Context, id int) (*entity.User, error)
	GetUserByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateUser(ctx context.Context, user *entity.User) error
	ListUsers(ctx context.Context, pendingSellersOnly bool) ([]entity.User, error)
}

// ProductFilter narrows ListProducts. Nil/zero fields are ignored.
type ProductFilter struct {
	CategoryID   *int
	SellerID     *int
	FeaturedOnly bool
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Search       string
	// IncludeUnapproved lifts the active+approved gate, for sellers
	// viewing their own listings.
	IncludeUnapproved bool
}

type ProductRepository interface {
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	GetProductByID(ctx context.Context, id int) (*entity.Product, error)
	UpdateProduct(ctx context.Context, product *entity.Product) error
	DeleteProduct(ctx context.Context, id int) error
	ListProducts(ctx context.Context, filter ProductFilter) ([]entity.Product, error)
	ListPendingApproval(ctx context.Context) ([]entity.Product, error)
	SetApproval(ctx context.Context, id int, active, approved bool) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	CountSellerProducts(ctx context.Context, sellerID int) (total, active int, err error)
}

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *entity.Category) (*entity.Category, error)
	GetCategoryBySlug(ctx context.Context, slug string) (*entity.Category, error)
	ListCategories(ctx context.Context) ([]entity.Category, error)
}

type CartRepository interface {
	// GetOrCreateCart never returns ErrNotFound for the cart itself.
	GetOrCreateCart(ctx context.Context, buyerID int) (*entity.Cart, error)
	AddItem(ctx context.Context, buyerID, productID, quantity int) error
	UpdateItem(ctx context.Context, buyerID, itemID, quantity int) error
	RemoveItem(ctx context.Context, buyerID, itemID int) error
	ClearCart(ctx context.Context, buyerID int) error
}

// CheckoutInfo carries the buyer-supplied order fields.
type CheckoutInfo struct {
	ShippingAddress string
	ShippingPhone   string
	Notes           string
}

type OrderRepository interface {
	// CheckoutCart atomically converts the buyer's cart into an order:
	// price and seller snapshots, stock decrements and cart clearing all
	// commit or roll back as one unit.
	CheckoutCart(ctx context.Context, buyerID int, info CheckoutInfo) (*entity.Order, error)
	GetOrderByID(ctx context.Context, id int) (*entity.Order, error)
	ListOrdersByBuyer(ctx context.Context, buyerID int) ([]entity.Order, error)
	ListOrdersBySeller(ctx context.Context, sellerID int) ([]entity.Order, error)
	SellerHasItems(ctx context.Context, orderID, sellerID int) (bool, error)
	UpdateOrderStatus(ctx context.Context, orderID int, status string) error
	SellerStats(ctx context.Context, sellerID int) (*SellerOrderStats, error)
}

// SellerOrderStats backs the seller dashboard. Revenue counts delivered
// orders only.
type SellerOrderStats struct {
	TotalOrders      int             `json:"total_orders"`
	PendingOrders    int             `json:"pending_orders"`
	DeliveredRevenue decimal.Decimal `json:"delivered_revenue"`
}

type ReviewRepository interface {
	CreateReview(ctx context.Context, review *entity.Review) (*entity.Review, error)
	ListReviewsByProduct(ctx context.Context, productID int) ([]entity.Review, error)
	HasDeliveredOrder(ctx context.Context, buyerID, productID int) (bool, error)
}

type WishlistRepository interface {
	GetOrCreateWishlist(ctx context.Context, buyerID int) (*entity.Wishlist, error)
	AddProduct(ctx context.Context, buyerID, productID int) error
	RemoveProduct(ctx context.Context, buyerID, productID int) error
}
