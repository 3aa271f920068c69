package main

import (
	"context"
	"database/sql"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"marketplace-backend/internal/api"
	"marketplace-backend/internal/config"
	"marketplace-backend/internal/consumer"
	"marketplace-backend/internal/repository"
	"marketplace-backend/internal/service"
	"marketplace-backend/migrations"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

func connectDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, err
	}

	// the database may still be starting
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			return db, nil
		}
		logger.Warn().Err(err).Msg("Waiting for database")
		time.Sleep(2 * time.Second)
	}
	return nil, err
}

func main() {
	cfg := config.LoadConfig()

	db, err := connectDB(cfg.DSN())
	if err != nil {
		logger.Fatal().Err(err).Msg("Error connecting to database")
	}

	if err := migrations.AutoMigrate(db, 5); err != nil {
		logger.Fatal().Err(err).Msg("Error running migrations")
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
	defer kafkaWriter.Close()

	// Repositories
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	cartRepo := repository.NewCartRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	wishlistRepo := repository.NewWishlistRepository(db)

	// Services
	jwtSecret := []byte(cfg.JWTSecret)
	userService := service.NewUserService(userRepo, cartRepo, wishlistRepo, rdb, jwtSecret)
	productService := service.NewProductService(productRepo, categoryRepo, rdb)
	cartService := service.NewCartService(cartRepo)
	orderService := service.NewOrderService(orderRepo, kafkaWriter, rdb)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	wishlistService := service.NewWishlistService(wishlistRepo, productRepo)

	// Cache-refresh consumer for order events
	orderReader := config.NewKafkaReader(cfg.KafkaBrokers, cfg.KafkaTopic, "marketplace-backend-group")
	defer orderReader.Close()
	go consumer.NewConsumer(orderReader, productService).Run(context.Background())

	e := echo.New()

	rateLimiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(20),
				Burst:     60,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return c.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(rateLimiterConfig))

	api.RegisterRoutes(e, api.Handlers{
		User:     api.NewUserHandler(userService),
		Product:  api.NewProductHandler(productService),
		Cart:     api.NewCartHandler(cartService),
		Order:    api.NewOrderHandler(orderService),
		Review:    api.NewReviewHandler(reviewService),
		Wishlist:  api.NewWishlistHandler(wishlistService),
		Dashboard: api.NewDashboardHandler(productService, orderService),
	}, userService, jwtSecret)

	// Start server
	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}
