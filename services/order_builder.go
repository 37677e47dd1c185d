package services

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/models"
)

// Fallback literals for optional session metadata. Order construction must
// never fail because a shopper left a field blank.
const (
	FallbackName    = "Customer"
	FallbackEmail   = "No email provided"
	FallbackPhone   = "No phone provided"
	FallbackAddress = "No address provided"
	FallbackMessage = "No special instructions"
	FallbackRaw     = "unknown"
	FallbackDisplay = "Not specified"
)

const commitmentMonths = 3

// OrderBuilder derives order records and display summaries from checkout
// sessions.
type OrderBuilder struct {
	Gateway PaymentGateway
	Logger  *zap.Logger
}

func NewOrderBuilder(gateway PaymentGateway, logger *zap.Logger) *OrderBuilder {
	return &OrderBuilder{Gateway: gateway, Logger: logger}
}

// ResolvePlan determines the service plan using the layered fallbacks:
// session metadata, expanded line items, separately fetched line items, and
// finally the amount-based price table.
func (b *OrderBuilder) ResolvePlan(sess *stripe.CheckoutSession) PlanInfo {
	if plan := sess.Metadata["servicePlan"]; plan != "" {
		if display, ok := ServicePlans[plan]; ok {
			return PlanInfo{ID: plan, Display: display}
		}
	}

	if sess.LineItems != nil && len(sess.LineItems.Data) > 0 {
		if li := sess.LineItems.Data[0]; li.Price != nil {
			if plan, ok := PriceIDToPlan[li.Price.ID]; ok {
				return plan
			}
		}
	}

	items, err := b.Gateway.ListLineItems(sess.ID)
	if err != nil {
		b.Logger.Warn("failed to fetch line items for session",
			zap.String("session_id", sess.ID),
			zap.Error(err),
		)
	} else if len(items) > 0 && items[0].Price != nil {
		if plan, ok := PriceIDToPlan[items[0].Price.ID]; ok {
			return plan
		}
	}

	return PlanFromAmount(float64(sess.AmountTotal) / 100)
}

// BuildOrder constructs the persistable order record for a completed checkout
// session. Monthly plans get a 3-month commitment window anchored at now.
func (b *OrderBuilder) BuildOrder(sess *stripe.CheckoutSession, now time.Time) *models.Order {
	plan := b.ResolvePlan(sess)

	order := &models.Order{
		ID:                  uuid.New(),
		StripeSessionID:     sess.ID,
		CustomerName:        metadataOr(sess, "name", FallbackName),
		CustomerEmail:       stringOr(sess.CustomerEmail, FallbackEmail),
		CustomerPhone:       metadataOr(sess, "phone", FallbackPhone),
		Address:             metadataOr(sess, "address", FallbackAddress),
		ServicePlan:         plan.ID,
		ServicePlanDisplay:  plan.Display,
		DayOfPickup:         metadataOr(sess, "dayOfPickup", FallbackRaw),
		DayOfPickupDisplay:  displayOr(sess, "dayOfPickup", DaysOfWeek),
		TimeOfPickup:        metadataOr(sess, "timeOfPickup", FallbackRaw),
		TimeOfPickupDisplay: displayOr(sess, "timeOfPickup", TimeSlots),
		Message:             metadataOr(sess, "message", FallbackMessage),
		Amount:              float64(sess.AmountTotal) / 100,
		Status:              models.StatusActive,
	}

	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		pi := sess.PaymentIntent.ID
		order.PaymentIntentID = &pi
	}

	if plan.ID == models.PlanMonthly {
		start := now
		end := now.AddDate(0, commitmentMonths, 0)
		monthly := float64(sess.AmountTotal) / commitmentMonths / 100
		total := float64(sess.AmountTotal) / 100
		months := commitmentMonths

		order.StartDate = &start
		order.EndDate = &end
		order.MonthlyAmount = &monthly
		order.TotalAmount = &total
		order.CommitmentMonths = &months
	}

	return order
}

// OrderSummary is the display-formatted order view returned to the success
// page after checkout.
type OrderSummary struct {
	OrderID      string `json:"orderId"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	Address      string `json:"address"`
	ServicePlan  string `json:"servicePlan"`
	DayOfPickup  string `json:"dayOfPickup"`
	TimeOfPickup string `json:"timeOfPickup"`
	Message      string `json:"message"`
	Amount       string `json:"amount"`
}

func (b *OrderBuilder) BuildSummary(sess *stripe.CheckoutSession) OrderSummary {
	plan := b.ResolvePlan(sess)

	orderID := sess.ID
	if sess.PaymentIntent != nil && sess.PaymentIntent.ID != "" {
		orderID = sess.PaymentIntent.ID
	}

	return OrderSummary{
		OrderID:      shortID(orderID),
		Name:         metadataOr(sess, "name", FallbackName),
		Email:        stringOr(sess.CustomerEmail, FallbackEmail),
		Phone:        metadataOr(sess, "phone", FallbackPhone),
		Address:      metadataOr(sess, "address", FallbackAddress),
		ServicePlan:  plan.Display,
		DayOfPickup:  displayOr(sess, "dayOfPickup", DaysOfWeek),
		TimeOfPickup: displayOr(sess, "timeOfPickup", TimeSlots),
		Message:      sess.Metadata["message"],
		Amount:       fmt.Sprintf("%.2f", float64(sess.AmountTotal)/100),
	}
}

// shortID keeps the trailing 8 characters, enough for a human-friendly
// order reference.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}

func metadataOr(sess *stripe.CheckoutSession, key, fallback string) string {
	if v := sess.Metadata[key]; v != "" {
		return v
	}
	return fallback
}

func stringOr(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}

// displayOr maps a raw metadata value through its display table, keeping the
// raw value when it has no mapping and falling back when it is absent.
func displayOr(sess *stripe.CheckoutSession, key string, table map[string]string) string {
	raw := sess.Metadata[key]
	if raw == "" {
		return FallbackDisplay
	}
	if display, ok := table[raw]; ok {
		return display
	}
	return raw
}
