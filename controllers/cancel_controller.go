package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/models"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/repository"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/retry"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/services"
)

// CancelController runs the customer-initiated cancellation pipeline. Before
// the refund is issued any failure aborts cleanly; after the refund is issued
// the money has moved, so every remaining step is best-effort and the caller
// still gets a success response carrying the refund id.
type CancelController struct {
	Stripe   services.PaymentGateway
	Orders   repository.OrderRepository
	Audit    repository.AuditRepository
	Notifier Notifier
	Events   EventPublisher
	Logger   *zap.Logger
	Retry    retry.Config
}

type cancelRequest struct {
	SessionID string `json:"sessionId"`
}

func (cc *CancelController) CancelOrder(c *gin.Context) {
	ctx := c.Request.Context()

	var req cancelRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.SessionID == "" {
		respondError(c, cc.Logger, http.StatusBadRequest, "Session ID is required", err)
		return
	}

	refunded, err := cc.Orders.RefundExists(ctx, req.SessionID)
	if err != nil {
		respondError(c, cc.Logger, http.StatusInternalServerError, "Failed to process cancellation request", err)
		return
	}
	if refunded {
		respondError(c, cc.Logger, http.StatusBadRequest, "This order has already been refunded", nil)
		return
	}

	var sess *stripe.CheckoutSession
	if err := retry.Do(ctx, cc.Logger, "retrieve checkout session", cc.Retry, func() error {
		var rerr error
		sess, rerr = cc.Stripe.RetrieveSession(req.SessionID)
		return rerr
	}); err != nil {
		respondError(c, cc.Logger, http.StatusNotFound, "Session not found", err)
		return
	}

	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		respondError(c, cc.Logger, http.StatusBadRequest, "No payment found for this session", nil)
		return
	}

	orders, err := cc.Orders.FindOrdersBySessionID(ctx, req.SessionID)
	if err != nil {
		respondError(c, cc.Logger, http.StatusInternalServerError, "Failed to process cancellation request", err)
		return
	}
	if len(orders) == 0 {
		respondError(c, cc.Logger, http.StatusNotFound, "Order not found", nil)
		return
	}
	order := orders[0]

	var refund *stripe.Refund
	if err := retry.Do(ctx, cc.Logger, "create refund", cc.Retry, func() error {
		var rerr error
		refund, rerr = cc.Stripe.CreateRefund(sess.PaymentIntent.ID)
		return rerr
	}); err != nil {
		respondError(c, cc.Logger, http.StatusInternalServerError, "Failed to process refund", err)
		return
	}

	// The refund is issued; from here on the response commits to that.
	now := time.Now()

	cancelled, err := cc.Orders.CancelOrdersBySessionID(ctx, req.SessionID, refund.ID, now)
	if err != nil {
		cc.Logger.Error("Failed to mark orders cancelled after refund",
			zap.String("session_id", req.SessionID),
			zap.String("refund_id", refund.ID),
			zap.Error(err),
		)
	}

	if err := cc.Notifier.SendCancellationNotices(ctx, &order, refund.ID); err != nil {
		cc.Logger.Warn("Cancellation notices failed, logged for manual resend",
			zap.String("session_id", req.SessionID),
			zap.Error(err),
		)
	}

	if err := cc.Orders.CreateRefundRecord(ctx, &models.RefundRecord{
		SessionID:     req.SessionID,
		RefundID:      refund.ID,
		Amount:        order.Amount,
		CustomerEmail: order.CustomerEmail,
	}); err != nil {
		cc.Logger.Error("Failed to record refund", zap.String("refund_id", refund.ID), zap.Error(err))
	}

	if err := cc.Audit.LogCancellation(ctx, &models.CancellationLog{
		SessionID:       req.SessionID,
		RefundID:        refund.ID,
		OrdersCancelled: int(cancelled),
	}); err != nil {
		cc.Logger.Error("Failed to record cancellation audit entry", zap.Error(err))
	}

	publishOrderEvent(cc.Events, cc.Logger, models.OrderEvent{
		Type:            models.OrderEventCancelled,
		OrderID:         order.ID.String(),
		StripeSessionID: order.StripeSessionID,
		ServicePlan:     order.ServicePlan,
		Amount:          order.Amount,
		CustomerEmail:   order.CustomerEmail,
		Timestamp:       now.UTC(),
	})

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"message":  "Order cancelled and refund initiated",
		"refundId": refund.ID,
	})
}
