package api

import (
	"github.com/labstack/echo/v4"

	"marketplace-backend/internal/service"
)

type DashboardHandler struct {
	productService *service.ProductService
	orderService   *service.OrderService
}

// NewDashboardHandler creates a new instance of DashboardHandler
func NewDashboardHandler(productService *service.ProductService, orderService *service.OrderService) *DashboardHandler {
	return &DashboardHandler{productService: productService, orderService: orderService}
}

// SellerDashboard aggregates the seller's console numbers --> GET /seller/dashboard
func (h *DashboardHandler) SellerDashboard(c echo.Context) error {
	actor := currentUser(c)

	productStats, err := h.productService.SellerStats(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	orderStats, err := h.orderService.SellerStats(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(200, map[string]interface{}{
		"total_products":    productStats.TotalProducts,
		"active_products":   productStats.ActiveProducts,
		"total_orders":      orderStats.TotalOrders,
		"pending_orders":    orderStats.PendingOrders,
		"delivered_revenue": orderStats.DeliveredRevenue,
	})
}
