package api

import (
	"github.com/labstack/echo/v4"

	"marketplace-backend/internal/service"
)

type WishlistHandler struct {
	wishlistService *service.WishlistService
}

// NewWishlistHandler creates a new instance of WishlistHandler
func NewWishlistHandler(wishlistService *service.WishlistService) *WishlistHandler {
	return &WishlistHandler{wishlistService: wishlistService}
}

// ViewWishlist --> GET /wishlist
func (h *WishlistHandler) ViewWishlist(c echo.Context) error {
	wishlist, err := h.wishlistService.View(c.Request().Context(), currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, wishlist)
}

// AddToWishlist --> POST /wishlist/add
func (h *WishlistHandler) AddToWishlist(c echo.Context) error {
	req := struct {
		ProductID int `json:"product_id" validate:"required"`
	}{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	wishlist, err := h.wishlistService.Add(c.Request().Context(), currentUser(c), req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, wishlist)
}

// RemoveFromWishlist --> DELETE /wishlist/remove
func (h *WishlistHandler) RemoveFromWishlist(c echo.Context) error {
	req := struct {
		ProductID int `json:"product_id" validate:"required"`
	}{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	wishlist, err := h.wishlistService.Remove(c.Request().Context(), currentUser(c), req.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, wishlist)
}
