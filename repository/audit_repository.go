package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/models"
)

// AuditRepository appends write-once diagnostic records. The pipelines never
// read these back.
type AuditRepository interface {
	LogFailedWebhook(ctx context.Context, entry *models.FailedWebhook) error
	LogFailedEmail(ctx context.Context, entry *models.FailedEmail) error
	CreateNotification(ctx context.Context, entry *models.Notification) error
	LogEmailOutcome(ctx context.Context, entry *models.EmailLog) error
	LogCancellation(ctx context.Context, entry *models.CancellationLog) error
}

type gormAuditRepo struct {
	db *gorm.DB
}

func NewGormAuditRepo(db *gorm.DB) AuditRepository {
	return &gormAuditRepo{db: db}
}

func (r *gormAuditRepo) LogFailedWebhook(ctx context.Context, entry *models.FailedWebhook) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormAuditRepo) LogFailedEmail(ctx context.Context, entry *models.FailedEmail) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormAuditRepo) CreateNotification(ctx context.Context, entry *models.Notification) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormAuditRepo) LogEmailOutcome(ctx context.Context, entry *models.EmailLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *gormAuditRepo) LogCancellation(ctx context.Context, entry *models.CancellationLog) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(entry).Error
}
