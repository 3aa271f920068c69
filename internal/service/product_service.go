package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/shopspring/decimal"

	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/repository"
)

const productCacheTTL = 1 * time.Minute

type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	rdb          *redis.Client
}

// NewProductService creates a new instance of ProductService.
func NewProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, rdb *redis.Client) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		rdb:          rdb,
	}
}

type ProductInput struct {
	CategoryID    *int
	Title         string
	Description   string
	Price         decimal.Decimal
	DiscountPrice decimal.NullDecimal
	Stock         int
	IsActive      bool
	IsFeatured    bool
}

func validateProductInput(in ProductInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return fmt.Errorf("%w: title is required", repository.ErrInvalidInput)
	}
	if in.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", repository.ErrInvalidInput)
	}
	if in.DiscountPrice.Valid && in.DiscountPrice.Decimal.IsNegative() {
		return fmt.Errorf("%w: discount price must not be negative", repository.ErrInvalidInput)
	}
	if in.Stock < 0 {
		return fmt.Errorf("%w: stock must not be negative", repository.ErrInvalidInput)
	}
	return nil
}

// CreateProduct lists a product for an approved seller. New listings await
// admin approval before they become visible to buyers.
func (s *ProductService) CreateProduct(ctx context.Context, actor *entity.User, in ProductInput) (*entity.Product, error) {
	if err := auth.Authorize(actor, auth.CapManageListings); err != nil {
		return nil, err
	}
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	slug, err := s.uniqueSlug(ctx, in.Title)
	if err != nil {
		return nil, err
	}

	product := &entity.Product{
		SellerID:      actor.ID,
		CategoryID:    in.CategoryID,
		Title:         in.Title,
		Slug:          slug,
		Description:   in.Description,
		Price:         in.Price,
		DiscountPrice: in.DiscountPrice,
		Stock:         in.Stock,
		IsActive:      in.IsActive,
		IsApproved:    false,
		IsFeatured:    in.IsFeatured,
	}

	created, err := s.productRepo.CreateProduct(ctx, product)
	if err != nil {
		logger.Error().Err(err).Msg("Error creating product")
		return nil, err
	}
	return created, nil
}

// GetProduct reads through the redis cache.
func (s *ProductService) GetProduct(ctx context.Context, id int) (*entity.Product, error) {
	if s.rdb != nil {
		cached, err := s.rdb.Get(ctx, productCacheKey(id)).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			logger.Error().Err(err).Msgf("Error getting product %d from cache", id)
		}
		if cached != "" {
			var product entity.Product
			if err := json.Unmarshal([]byte(cached), &product); err == nil {
				return &product, nil
			}
			logger.Error().Msgf("Error unmarshalling cached product %d", id)
		}
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cacheProduct(ctx, product)
	return product, nil
}

func (s *ProductService) UpdateProduct(ctx context.Context, actor *entity.User, id int, in ProductInput) (*entity.Product, error) {
	if err := auth.Authorize(actor, auth.CapManageListings); err != nil {
		return nil, err
	}
	if err := validateProductInput(in); err != nil {
		return nil, err
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product.SellerID != actor.ID {
		return nil, auth.ErrForbidden
	}

	product.CategoryID = in.CategoryID
	product.Title = in.Title
	product.Description = in.Description
	product.Price = in.Price
	product.DiscountPrice = in.DiscountPrice
	product.Stock = in.Stock
	product.IsActive = in.IsActive
	product.IsFeatured = in.IsFeatured

	if err := s.productRepo.UpdateProduct(ctx, product); err != nil {
		logger.Error().Err(err).Msgf("Error updating product %d", id)
		return nil, err
	}

	s.InvalidateProduct(ctx, id)
	return product, nil
}

func (s *ProductService) DeleteProduct(ctx context.Context, actor *entity.User, id int) error {
	if err := auth.Authorize(actor, auth.CapManageListings); err != nil {
		return err
	}

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	if product.SellerID != actor.ID {
		return auth.ErrForbidden
	}

	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.InvalidateProduct(ctx, id)
	return nil
}

// ListProducts applies the public active+approved gate unless the actor is
// the seller the filter targets, who sees all their own listings.
func (s *ProductService) ListProducts(ctx context.Context, actor *entity.User, filter repository.ProductFilter) ([]entity.Product, error) {
	filter.IncludeUnapproved = actor != nil && filter.SellerID != nil && *filter.SellerID == actor.ID
	return s.productRepo.ListProducts(ctx, filter)
}

// SellerProductStats holds the catalog half of the seller dashboard.
type SellerProductStats struct {
	TotalProducts  int `json:"total_products"`
	ActiveProducts int `json:"active_products"`
}

func (s *ProductService) SellerStats(ctx context.Context, actor *entity.User) (*SellerProductStats, error) {
	if err := auth.Authorize(actor, auth.CapManageListings); err != nil {
		return nil, err
	}
	total, active, err := s.productRepo.CountSellerProducts(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return &SellerProductStats{TotalProducts: total, ActiveProducts: active}, nil
}

func (s *ProductService) FeaturedProducts(ctx context.Context) ([]entity.Product, error) {
	return s.productRepo.ListProducts(ctx, repository.ProductFilter{FeaturedOnly: true})
}

func (s *ProductService) PendingProducts(ctx context.Context, actor *entity.User) ([]entity.Product, error) {
	if err := auth.Authorize(actor, auth.CapModerate); err != nil {
		return nil, err
	}
	return s.productRepo.ListPendingApproval(ctx)
}

func (s *ProductService) ApproveProduct(ctx context.Context, actor *entity.User, id int) error {
	if err := auth.Authorize(actor, auth.CapModerate); err != nil {
		return err
	}
	if err := s.productRepo.SetApproval(ctx, id, true, true); err != nil {
		return err
	}
	s.InvalidateProduct(ctx, id)
	return nil
}

// RejectProduct removes the listing outright.
func (s *ProductService) RejectProduct(ctx context.Context, actor *entity.User, id int) error {
	if err := auth.Authorize(actor, auth.CapModerate); err != nil {
		return err
	}
	if err := s.productRepo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.InvalidateProduct(ctx, id)
	return nil
}

func (s *ProductService) CreateCategory(ctx context.Context, actor *entity.User, category *entity.Category) (*entity.Category, error) {
	if err := auth.Authorize(actor, auth.CapModerate); err != nil {
		return nil, err
	}
	if category.Slug == "" {
		category.Slug = slugify(category.Name)
	}
	return s.categoryRepo.CreateCategory(ctx, category)
}

func (s *ProductService) ListCategories(ctx context.Context) ([]entity.Category, error) {
	return s.categoryRepo.ListCategories(ctx)
}

// RefreshProduct re-caches a product from the database. Called by the
// order-event consumer after checkouts change stock.
func (s *ProductService) RefreshProduct(ctx context.Context, id int) error {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return err
	}
	s.cacheProduct(ctx, product)
	return nil
}

func (s *ProductService) InvalidateProduct(ctx context.Context, id int) {
	if s.rdb == nil {
		return
	}
	if err := s.rdb.Del(ctx, productCacheKey(id)).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error invalidating product %d in cache", id)
	}
}

func (s *ProductService) cacheProduct(ctx context.Context, product *entity.Product) {
	if s.rdb == nil {
		return
	}
	data, err := json.Marshal(product)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, productCacheKey(product.ID), data, productCacheTTL).Err(); err != nil {
		logger.Error().Err(err).Msgf("Error setting product %d in cache", product.ID)
	}
}

func productCacheKey(id int) string {
	return fmt.Sprintf("product:%d", id)
}

func (s *ProductService) uniqueSlug(ctx context.Context, title string) (string, error) {
	base := slugify(title)
	slug := base
	for counter := 1; ; counter++ {
		exists, err := s.productRepo.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !exists {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, counter)
	}
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	slug := slugStrip.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}
