package controllers

import (
	"encoding/json"
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

// WebhookController runs the order ingestion pipeline for inbound Stripe
// events: verify signature, dedup by session id, verify payment, persist,
// notify, audit. The event is never lost: every terminal failure leaves a
// durable record.
type WebhookController struct {
	Stripe   services.PaymentGateway
	Builder  *services.OrderBuilder
	Orders   repository.OrderRepository
	Audit    repository.AuditRepository
	Notifier Notifier
	Events   EventPublisher
	Logger   *zap.Logger
	Retry    retry.Config
	Now      func() time.Time
}

func (wc *WebhookController) now() time.Time {
	if wc.Now != nil {
		return wc.Now()
	}
	return time.Now()
}

// StripeWebhook receives and dispatches Stripe webhook events. Unrecognized
// event types are acknowledged and ignored.
func (wc *WebhookController) StripeWebhook(c *gin.Context) {
	event, err := wc.Stripe.ParseWebhook(c.Request)
	if err != nil {
		wc.Logger.Warn("Stripe webhook signature verification failed", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid webhook signature"})
		return
	}

	wc.Logger.Info("Processing Stripe webhook",
		zap.String("event_type", string(event.Type)),
		zap.String("event_id", event.ID),
	)

	switch event.Type {
	case "checkout.session.completed":
		wc.handleCheckoutCompleted(c, event)
	case "invoice.payment_succeeded":
		wc.handleInvoicePaymentSucceeded(c, event)
	case "invoice.payment_failed":
		wc.handleInvoicePaymentFailed(c, event)
	case "customer.subscription.deleted":
		wc.handleSubscriptionDeleted(c, event)
	default:
		wc.Logger.Info("Unhandled webhook event type", zap.String("event_type", string(event.Type)))
		c.JSON(http.StatusOK, gin.H{"received": true})
	}
}

func (wc *WebhookController) handleCheckoutCompleted(c *gin.Context, event stripe.Event) {
	ctx := c.Request.Context()

	var sess stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
		wc.Logger.Error("Failed to unmarshal checkout session", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
		return
	}

	// Dedup by session id: Stripe redelivers events, and the first
	// successful processing wins.
	existing, err := wc.Orders.FindOrdersBySessionID(ctx, sess.ID)
	if err != nil {
		wc.Logger.Warn("Idempotency check failed, continuing",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
	}
	if len(existing) > 0 {
		wc.Logger.Info("Skipping duplicate checkout webhook",
			zap.String("session_id", sess.ID),
		)
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	if sess.PaymentIntent == nil || sess.PaymentIntent.ID == "" {
		wc.Logger.Warn("Checkout session has no payment intent", zap.String("session_id", sess.ID))
		c.JSON(http.StatusBadRequest, gin.H{"error": "no payment found for session"})
		return
	}

	pi, err := wc.Stripe.GetPaymentIntent(sess.PaymentIntent.ID)
	if err != nil {
		wc.Logger.Error("Failed to verify payment intent",
			zap.String("payment_intent_id", sess.PaymentIntent.ID),
			zap.Error(err),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "unable to verify payment"})
		return
	}
	if pi.Status != stripe.PaymentIntentStatusSucceeded {
		wc.Logger.Warn("Payment not succeeded, leaving event for redelivery",
			zap.String("session_id", sess.ID),
			zap.String("status", string(pi.Status)),
		)
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment not completed"})
		return
	}

	order := wc.Builder.BuildOrder(&sess, wc.now())

	dbErr := retry.Do(ctx, wc.Logger, "save order", wc.Retry, func() error {
		return wc.Orders.CreateOrder(ctx, order)
	})
	if dbErr != nil {
		payload, _ := json.Marshal(order)
		if logErr := wc.Audit.LogFailedWebhook(ctx, &models.FailedWebhook{
			EventID:   event.ID,
			EventType: string(event.Type),
			SessionID: sess.ID,
			Error:     dbErr.Error(),
			Payload:   string(payload),
		}); logErr != nil {
			wc.Logger.Error("failed to record failed webhook", zap.Error(logErr))
		}
	}

	// Notification is attempted even when the database write failed; the
	// owner learning about the order matters more than a clean pipeline.
	emailErr := wc.Notifier.SendOrderConfirmations(ctx, event.ID, order)

	if logErr := wc.Audit.LogEmailOutcome(ctx, &models.EmailLog{
		EventID:         event.ID,
		SessionID:       sess.ID,
		DatabaseSuccess: dbErr == nil,
		EmailSuccess:    emailErr == nil,
	}); logErr != nil {
		wc.Logger.Error("failed to record email outcome", zap.Error(logErr))
	}

	if dbErr != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save order"})
		return
	}

	publishOrderEvent(wc.Events, wc.Logger, models.OrderEvent{
		Type:            models.OrderEventCreated,
		OrderID:         order.ID.String(),
		StripeSessionID: order.StripeSessionID,
		ServicePlan:     order.ServicePlan,
		Amount:          order.Amount,
		CustomerEmail:   order.CustomerEmail,
		Timestamp:       wc.now().UTC(),
	})

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (wc *WebhookController) handleInvoicePaymentSucceeded(c *gin.Context, event stripe.Event) {
	ctx := c.Request.Context()

	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		wc.Logger.Error("Failed to unmarshal invoice", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
		return
	}

	exists, err := wc.Orders.RecurringPaymentExists(ctx, invoice.ID)
	if err != nil {
		wc.Logger.Warn("Recurring payment dedup check failed, continuing", zap.Error(err))
	}
	if exists {
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	payment := &models.RecurringPayment{
		InvoiceID:     invoice.ID,
		CustomerEmail: invoice.CustomerEmail,
		Amount:        float64(invoice.AmountPaid) / 100,
	}
	if invoice.Subscription != nil {
		payment.SubscriptionID = invoice.Subscription.ID
	}

	if err := retry.Do(ctx, wc.Logger, "save recurring payment", wc.Retry, func() error {
		return wc.Orders.CreateRecurringPayment(ctx, payment)
	}); err != nil {
		wc.logSecondaryFailure(c, event, invoice.ID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (wc *WebhookController) handleInvoicePaymentFailed(c *gin.Context, event stripe.Event) {
	ctx := c.Request.Context()

	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Raw, &invoice); err != nil {
		wc.Logger.Error("Failed to unmarshal invoice", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
		return
	}

	payment := &models.FailedPayment{
		InvoiceID:     invoice.ID,
		CustomerEmail: invoice.CustomerEmail,
		Amount:        float64(invoice.AmountDue) / 100,
	}
	if invoice.Subscription != nil {
		payment.SubscriptionID = invoice.Subscription.ID
	}

	if err := retry.Do(ctx, wc.Logger, "save failed payment", wc.Retry, func() error {
		return wc.Orders.CreateFailedPayment(ctx, payment)
	}); err != nil {
		wc.logSecondaryFailure(c, event, invoice.ID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// handleSubscriptionDeleted flags the cancellation for operator follow-up;
// subscriptions are not correlated to checkout sessions, so order mutation is
// a manual step.
func (wc *WebhookController) handleSubscriptionDeleted(c *gin.Context, event stripe.Event) {
	ctx := c.Request.Context()

	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		wc.Logger.Error("Failed to unmarshal subscription", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
		return
	}

	if err := wc.Audit.CreateNotification(ctx, &models.Notification{
		Type:           "subscription_cancelled",
		Message:        "Stripe subscription " + sub.ID + " was cancelled; review any active monthly orders",
		ActionRequired: true,
	}); err != nil {
		wc.logSecondaryFailure(c, event, sub.ID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (wc *WebhookController) logSecondaryFailure(c *gin.Context, event stripe.Event, refID string, err error) {
	ctx := c.Request.Context()

	wc.Logger.Error("Failed to process webhook event",
		zap.String("event_type", string(event.Type)),
		zap.String("ref", refID),
		zap.Error(err),
	)
	if logErr := wc.Audit.LogFailedWebhook(ctx, &models.FailedWebhook{
		EventID:   event.ID,
		EventType: string(event.Type),
		SessionID: refID,
		Error:     err.Error(),
		Payload:   string(event.Data.Raw),
	}); logErr != nil {
		wc.Logger.Error("failed to record failed webhook", zap.Error(logErr))
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
}
