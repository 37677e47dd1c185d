package models

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive    = "active"
	StatusScheduled = "scheduled"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

const (
	PlanMonthly       = "monthly"
	PlanQuarterly     = "quarterly"
	PlanOneTime       = "oneTime"
	PlanSummerPackage = "buckeyeSummerPackage"
	PlanCustom        = "custom"
)

// Order is created only by the webhook pipeline after a verified completed
// checkout. At most one non-cancelled order per StripeSessionID should exist;
// the cancellation pipeline keeps the session id and attaches the refund id.
type Order struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	StripeSessionID string    `gorm:"index;not null"`
	PaymentIntentID *string

	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	Address       string

	ServicePlan         string `gorm:"type:varchar(40);not null"`
	ServicePlanDisplay  string
	DayOfPickup         string `gorm:"type:varchar(20)"`
	DayOfPickupDisplay  string
	TimeOfPickup        string `gorm:"type:varchar(20)"`
	TimeOfPickupDisplay string
	Message             string

	Amount float64 `gorm:"not null"` // dollars
	Status string  `gorm:"type:varchar(20);not null"`

	RefundID *string

	// Monthly commitment window, set only when ServicePlan == monthly.
	StartDate        *time.Time
	EndDate          *time.Time
	MonthlyAmount    *float64
	TotalAmount      *float64
	CommitmentMonths *int

	ScheduledDate *time.Time
	CompletedDate *time.Time
	CancelledAt   *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// RefundRecord is the durable proof of a cancellation; its existence for a
// session id blocks a second refund.
type RefundRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID     string    `gorm:"index;not null"`
	RefundID      string    `gorm:"not null"`
	Amount        float64
	CustomerEmail string
	CreatedAt     time.Time `gorm:"autoCreateTime"`
}

// RecurringPayment records a successful recurring-invoice payment, keyed by
// invoice id for idempotent ingestion.
type RecurringPayment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceID      string    `gorm:"uniqueIndex;not null"`
	SubscriptionID string
	CustomerEmail  string
	Amount         float64
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// FailedPayment records a failed recurring-invoice payment for operator
// follow-up.
type FailedPayment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	InvoiceID      string    `gorm:"index;not null"`
	SubscriptionID string
	CustomerEmail  string
	Amount         float64
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}
