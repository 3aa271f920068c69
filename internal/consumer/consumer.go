package consumer

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"marketplace-backend/internal/entity"
	"marketplace-backend/internal/service"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Consumer keeps the product cache in step with order traffic: every
// checkout changes stock, so the affected products are re-cached from the
// database when the event arrives.
type Consumer struct {
	reader     *kafka.Reader
	productSvc *service.ProductService
}

func NewConsumer(reader *kafka.Reader, productSvc *service.ProductService) *Consumer {
	return &Consumer{reader: reader, productSvc: productSvc}
}

// Run consumes order events until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context) {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			logger.Error().Err(err).Msg("Error reading message")
			continue
		}

		c.processMessage(ctx, msg)
	}
}

func (c *Consumer) processMessage(ctx context.Context, msg kafka.Message) {
	var order entity.Order
	if err := json.Unmarshal(msg.Value, &order); err != nil {
		logger.Error().Err(err).Msg("Error unmarshalling message")
		return
	}

	// key -> "order.created.50" or "order.status_updated.50"
	parts := strings.Split(string(msg.Key), ".")
	if len(parts) < 3 {
		logger.Error().Msgf("Malformed event key: %s", msg.Key)
		return
	}

	switch parts[1] {
	case "created":
		// stock changed; drop the stale cache entries
		for _, item := range order.Items {
			if err := c.productSvc.RefreshProduct(ctx, item.ProductID); err != nil {
				logger.Error().Err(err).Msgf("Error refreshing product %d", item.ProductID)
			}
		}
	case "status_updated":
		// no stock movement on status changes
	default:
		logger.Error().Msgf("Unknown order event: %s", parts[1])
	}
}
