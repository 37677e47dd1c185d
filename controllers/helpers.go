package controllers

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/models"
)

// Notifier is the notification dispatcher contract the pipelines depend on.
type Notifier interface {
	SendOrderConfirmations(ctx context.Context, eventID string, order *models.Order) error
	SendCancellationNotices(ctx context.Context, order *models.Order, refundID string) error
}

// EventPublisher publishes order lifecycle events. Publishing is best-effort;
// pipelines log failures and move on.
type EventPublisher interface {
	SendOrderEvent(event models.OrderEvent) error
}

// respondError logs a warning and writes a JSON error response.
func respondError(c *gin.Context, logger *zap.Logger, status int, msg string, err error) {
	if err != nil {
		logger.Warn(msg, zap.Error(err))
	}
	c.JSON(status, gin.H{"success": false, "message": msg})
}

// publishOrderEvent sends a lifecycle event when a publisher is wired.
func publishOrderEvent(events EventPublisher, logger *zap.Logger, event models.OrderEvent) {
	if events == nil {
		return
	}
	if err := events.SendOrderEvent(event); err != nil {
		logger.Error("failed to publish order event",
			zap.String("type", event.Type),
			zap.String("session_id", event.StripeSessionID),
			zap.Error(err),
		)
	}
}
