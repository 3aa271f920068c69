package api

import (
	"github.com/labstack/echo/v4"

	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/service"
)

type CartHandler struct {
	cartService *service.CartService
}

// NewCartHandler creates a new instance of CartHandler
func NewCartHandler(cartService *service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

// cartView decorates the cart with its live totals.
func cartView(cart *entity.Cart) map[string]interface{} {
	return map[string]interface{}{
		"cart":         cart,
		"total_amount": cart.TotalAmount(),
		"total_items":  cart.TotalItems(),
	}
}

// ViewCart --> GET /cart
func (h *CartHandler) ViewCart(c echo.Context) error {
	cart, err := h.cartService.View(c.Request().Context(), currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, cartView(cart))
}

// AddToCart --> POST /cart/add
func (h *CartHandler) AddToCart(c echo.Context) error {
	req := struct {
		ProductID int `json:"product_id" validate:"required"`
		Quantity  int `json:"quantity" validate:"required,min=1"`
	}{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	cart, err := h.cartService.Add(c.Request().Context(), currentUser(c), req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, cartView(cart))
}

// UpdateCartItem sets a line's quantity exactly --> PATCH /cart/update
func (h *CartHandler) UpdateCartItem(c echo.Context) error {
	req := struct {
		ItemID   int `json:"item_id" validate:"required"`
		Quantity int `json:"quantity"`
	}{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	cart, err := h.cartService.Update(c.Request().Context(), currentUser(c), req.ItemID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, cartView(cart))
}

// RemoveCartItem --> DELETE /cart/remove
func (h *CartHandler) RemoveCartItem(c echo.Context) error {
	req := struct {
		ItemID int `json:"item_id" validate:"required"`
	}{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	cart, err := h.cartService.Remove(c.Request().Context(), currentUser(c), req.ItemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, cartView(cart))
}

// ClearCart --> POST /cart/clear
func (h *CartHandler) ClearCart(c echo.Context) error {
	cart, err := h.cartService.Clear(c.Request().Context(), currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, cartView(cart))
}
