package api

import (
	"errors"
	"os"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"marketplace-backend/internal/auth"
	"marketplace-backend/internal/repository"
	"marketplace-backend/internal/service"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// writeError translates service and repository errors into the wire shape:
// {"error": <message>, "kind": <machine-readable kind>}. Unrecognized
// errors become an opaque 500.
func writeError(c echo.Context, err error) error {
	var stockErr *repository.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		return c.JSON(400, map[string]interface{}{
			"error":      stockErr.Error(),
			"kind":       "insufficient_stock",
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
	case errors.Is(err, repository.ErrEmptyCart):
		return c.JSON(400, map[string]string{"error": err.Error(), "kind": "empty_cart"})
	case errors.Is(err, repository.ErrNotFound):
		return c.JSON(404, map[string]string{"error": err.Error(), "kind": "not_found"})
	case errors.Is(err, auth.ErrForbidden):
		return c.JSON(403, map[string]string{"error": err.Error(), "kind": "forbidden"})
	case errors.Is(err, repository.ErrInvalidInput):
		return c.JSON(400, map[string]string{"error": err.Error(), "kind": "bad_request"})
	case errors.Is(err, repository.ErrDuplicate):
		return c.JSON(409, map[string]string{"error": err.Error(), "kind": "conflict"})
	case errors.Is(err, service.ErrInvalidCredentials):
		return c.JSON(401, map[string]string{"error": err.Error(), "kind": "unauthorized"})
	default:
		logger.Error().Err(err).Msg("Unhandled error")
		return c.JSON(500, map[string]string{"error": "internal server error", "kind": "internal"})
	}
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(400, map[string]string{"error": msg, "kind": "bad_request"})
}
