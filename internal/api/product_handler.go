package api

import (
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/repository"
	"marketplace-backend/internal/service"
)

type ProductHandler struct {
	productService *service.ProductService
}

// NewProductHandler creates a new instance of ProductHandler
func NewProductHandler(productService *service.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type productRequest struct {
	CategoryID    *int             `json:"category_id"`
	Title         string           `json:"title" validate:"required"`
	Description   string           `json:"description"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price"`
	Stock         int              `json:"stock"`
	IsActive      *bool            `json:"is_active"`
	IsFeatured    bool             `json:"is_featured"`
}

func (r productRequest) toInput() service.ProductInput {
	in := service.ProductInput{
		CategoryID:  r.CategoryID,
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		Stock:       r.Stock,
		IsFeatured:  r.IsFeatured,
		IsActive:    true,
	}
	if r.IsActive != nil {
		in.IsActive = *r.IsActive
	}
	if r.DiscountPrice != nil {
		in.DiscountPrice = decimal.NewNullDecimal(*r.DiscountPrice)
	}
	return in
}

// ListProducts lists the visible catalog --> GET /products
func (h *ProductHandler) ListProducts(c echo.Context) error {
	filter := repository.ProductFilter{Search: c.QueryParam("q")}

	if v := c.QueryParam("category_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "Invalid category_id")
		}
		filter.CategoryID = &id
	}
	if v := c.QueryParam("seller_id"); v != "" {
		id, err := strconv.Atoi(v)
		if err != nil {
			return badRequest(c, "Invalid seller_id")
		}
		filter.SellerID = &id
	}
	if v := c.QueryParam("min_price"); v != "" {
		p, err := decimal.NewFromString(v)
		if err != nil {
			return badRequest(c, "Invalid min_price")
		}
		filter.MinPrice = &p
	}
	if v := c.QueryParam("max_price"); v != "" {
		p, err := decimal.NewFromString(v)
		if err != nil {
			return badRequest(c, "Invalid max_price")
		}
		filter.MaxPrice = &p
	}
	filter.FeaturedOnly = c.QueryParam("featured") == "true"

	products, err := h.productService.ListProducts(c.Request().Context(), currentUser(c), filter)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, products)
}

// GetProduct retrieves one product --> GET /products/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid ID")
	}
	product, err := h.productService.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, product)
}

// FeaturedProducts --> GET /products/featured
func (h *ProductHandler) FeaturedProducts(c echo.Context) error {
	products, err := h.productService.FeaturedProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, products)
}

// CreateProduct lists a product for sale --> POST /products
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	req := productRequest{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	product, err := h.productService.CreateProduct(c.Request().Context(), currentUser(c), req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, product)
}

// UpdateProduct edits an owned listing --> PUT /products/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid ID")
	}
	req := productRequest{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	product, err := h.productService.UpdateProduct(c.Request().Context(), currentUser(c), id, req.toInput())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, product)
}

// DeleteProduct removes an owned listing --> DELETE /products/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid ID")
	}
	if err := h.productService.DeleteProduct(c.Request().Context(), currentUser(c), id); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(204)
}

// ListCategories --> GET /categories
func (h *ProductHandler) ListCategories(c echo.Context) error {
	categories, err := h.productService.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, categories)
}

// CreateCategory --> POST /admin/categories
func (h *ProductHandler) CreateCategory(c echo.Context) error {
	req := struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
		ParentID    *int   `json:"parent_id"`
	}{}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request payload")
	}
	if err := c.Validate(&req); err != nil {
		return writeError(c, err)
	}

	category, err := h.productService.CreateCategory(c.Request().Context(), currentUser(c), &entity.Category{
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, category)
}

// PendingProducts lists listings awaiting moderation --> GET /admin/products/pending
func (h *ProductHandler) PendingProducts(c echo.Context) error {
	products, err := h.productService.PendingProducts(c.Request().Context(), currentUser(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, products)
}

// ApproveProduct --> POST /admin/products/:id/approve
func (h *ProductHandler) ApproveProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid ID")
	}
	if err := h.productService.ApproveProduct(c.Request().Context(), currentUser(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "product approved"})
}

// RejectProduct --> POST /admin/products/:id/reject
func (h *ProductHandler) RejectProduct(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return badRequest(c, "Invalid ID")
	}
	if err := h.productService.RejectProduct(c.Request().Context(), currentUser(c), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "product rejected"})
}
