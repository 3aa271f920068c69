package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"marketplace-backend/internal/service"
)

type OrderHandler struct {
	orderService *service.OrderService
}

// NewOrderHandler creates a new instance of OrderHandler
func NewOrderHandler(orderService *service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Checkout converts the cart into an order --> POST /orders
func (h *OrderHandler) Checkout(c echo.Context) error {
	req := struct {
		ShippingAddress string `json:"shipping_address" validate:"required"`
		ShippingPhone   string `json:"shipping_phone"`
		Notes           string `json:"notes"`
	}{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	order, err := h.orderService.Checkout(c.Request().Context(), currentUser(c), service.CheckoutInput{
		ShippingAddress: req.ShippingAddress,
		ShippingPhone:   req.ShippingPhone,
		Notes:           req.Notes,
		IdempotencyKey:  c.Request().Header.Get("Idempotency-Key"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, order)
}

// ListOrders shows the actor's orders --> GET /orders
func (h *OrderHandler) ListOrders(c echo.Context) error {
	orders, err := h.orderService.List(c.Request().Context(), currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, orders)
}

// GetOrder --> GET /orders/:id
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid ID")
	}
	order, err := h.orderService.Get(c.Request().Context(), currentUser(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, order)
}

// UpdateOrderStatus --> PATCH /orders/:id/update_status
func (h *OrderHandler) UpdateOrderStatus(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid ID")
	}
	req := struct {
		Status string `json:"status" validate:"required"`
	}{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	order, err := h.orderService.UpdateStatus(c.Request().Context(), currentUser(c), id, req.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, order)
}
