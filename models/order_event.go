package models

import "time"

const (
	OrderEventCreated   = "order_created"
	OrderEventCancelled = "order_cancelled"
)

// OrderEvent is the message published to the order-events topic after an
// order is created or cancelled.
type OrderEvent struct {
	Type            string    `json:"type"`
	OrderID         string    `json:"order_id"`
	StripeSessionID string    `json:"stripe_session_id"`
	ServicePlan     string    `json:"service_plan"`
	Amount          float64   `json:"amount"`
	CustomerEmail   string    `json:"customer_email"`
	Timestamp       time.Time `json:"timestamp"`
}
