package api

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"marketplace-backend/internal/service"
)

type ReviewHandler struct {
	reviewService *service.ReviewService
}

// NewReviewHandler creates a new instance of ReviewHandler
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviewService: reviewService}
}

// CreateReview --> POST /products/:id/reviews
func (h *ReviewHandler) CreateReview(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid ID")
	}
	req := struct {
		Rating  int    `json:"rating" validate:"required,min=1,max=5"`
		Comment string `json:"comment"`
	}{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	review, err := h.reviewService.Create(c.Request().Context(), currentUser(c), productID, req.Rating, req.Comment)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, review)
}

// ListReviews --> GET /products/:id/reviews
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	productID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid ID")
	}
	reviews, err := h.reviewService.ListByProduct(c.Request().Context(), productID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, reviews)
}
