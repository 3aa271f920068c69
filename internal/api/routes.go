package api

import (
	"time"

	"github.com/labstack/echo/v4"

	"marketplace-backend/internal/service"
)

// Handlers groups everything RegisterRoutes needs.
type Handlers struct {
	User     *UserHandler
	Product  *ProductHandler
	Cart     *CartHandler
	Order    *OrderHandler
	Review    *ReviewHandler
	Wishlist  *WishlistHandler
	Dashboard *DashboardHandler
}

// RegisterRoutes mounts the public and JWT-protected route groups.
func RegisterRoutes(e *echo.Echo, h Handlers, userService *service.UserService, jwtSecret []byte) {
	e.Validator = NewRequestValidator()

	// Public
	e.POST("/register", h.User.Register)
	e.POST("/login", h.User.Login)
	e.GET("/products", h.Product.ListProducts)
	e.GET("/products/featured", h.Product.FeaturedProducts)
	e.GET("/products/:id", h.Product.GetProduct)
	e.GET("/products/:id/reviews", h.Review.ListReviews)
	e.GET("/categories", h.Product.ListCategories)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "marketplace-backend",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// Authenticated
	authed := e.Group("", JWTMiddleware(jwtSecret), LoadUser(userService))

	authed.POST("/logout", h.User.Logout)
	authed.GET("/me", h.User.Me)
	authed.POST("/apply_seller", h.User.ApplySeller)

	authed.GET("/cart", h.Cart.ViewCart)
	authed.POST("/cart/add", h.Cart.AddToCart)
	authed.PATCH("/cart/update", h.Cart.UpdateCartItem)
	authed.DELETE("/cart/remove", h.Cart.RemoveCartItem)
	authed.POST("/cart/clear", h.Cart.ClearCart)

	authed.POST("/orders", h.Order.Checkout)
	authed.GET("/orders", h.Order.ListOrders)
	authed.GET("/orders/:id", h.Order.GetOrder)
	authed.PATCH("/orders/:id/update_status", h.Order.UpdateOrderStatus)

	authed.POST("/products", h.Product.CreateProduct)
	authed.PUT("/products/:id", h.Product.UpdateProduct)
	authed.DELETE("/products/:id", h.Product.DeleteProduct)
	authed.POST("/products/:id/reviews", h.Review.CreateReview)

	authed.GET("/seller/dashboard", h.Dashboard.SellerDashboard)

	authed.GET("/wishlist", h.Wishlist.ViewWishlist)
	authed.POST("/wishlist/add", h.Wishlist.AddToWishlist)
	authed.DELETE("/wishlist/remove", h.Wishlist.RemoveFromWishlist)

	// Moderation; capability checks happen in the services
	admin := authed.Group("/admin")
	admin.GET("/users", h.User.ListUsers)
	admin.POST("/users/:id/approve_seller", h.User.ApproveSeller)
	admin.GET("/products/pending", h.Product.PendingProducts)
	admin.POST("/products/:id/approve", h.Product.ApproveProduct)
	admin.POST("/products/:id/reject", h.Product.RejectProduct)
	admin.POST("/categories", h.Product.CreateCategory)
}
