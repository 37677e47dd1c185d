package models

import (
	"time"

	"github.com/google/uuid"
)

// Write-once diagnostic records. The pipelines only ever append to these;
// they are read by operators, never by the code paths that write them.

type FailedWebhook struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID   string    `gorm:"index"`
	EventType string
	SessionID string `gorm:"index"`
	Error     string
	Payload   string    `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

type FailedEmail struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID   string    `gorm:"index"`
	SessionID string    `gorm:"index"`
	Recipient string
	Error     string
	Payload   string    `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Notification flags required manual action, e.g. a confirmation email that
// must be resent by hand.
type Notification struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID      string    `gorm:"index"`
	Type           string    `gorm:"type:varchar(40)"`
	Message        string
	ActionRequired bool
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// EmailLog is the per-event outcome audit entry: one row per processed
// webhook recording how the persist and notify steps went.
type EmailLog struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	EventID         string    `gorm:"index"`
	SessionID       string    `gorm:"index"`
	DatabaseSuccess bool
	EmailSuccess    bool
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

type CancellationLog struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionID       string    `gorm:"index"`
	RefundID        string
	OrdersCancelled int
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}
