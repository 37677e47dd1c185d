package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/models"
)

type OrderRepository interface {
	CreateOrder(ctx context.Context, order *models.Order) error
	FindOrdersBySessionID(ctx context.Context, sessionID string) ([]models.Order, error)
	CancelOrdersBySessionID(ctx context.Context, sessionID, refundID string, at time.Time) (int64, error)
	ListOrders(ctx context.Context, status string) ([]models.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error

	RefundExists(ctx context.Context, sessionID string) (bool, error)
	CreateRefundRecord(ctx context.Context, record *models.RefundRecord) error

	RecurringPaymentExists(ctx context.Context, invoiceID string) (bool, error)
	CreateRecurringPayment(ctx context.Context, payment *models.RecurringPayment) error
	CreateFailedPayment(ctx context.Context, payment *models.FailedPayment) error
}

type gormOrderRepo struct {
	db *gorm.DB
}

func NewGormOrderRepo(db *gorm.DB) OrderRepository {
	return &gormOrderRepo{db: db}
}

func (r *gormOrderRepo) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *gormOrderRepo) FindOrdersBySessionID(ctx context.Context, sessionID string) ([]models.Order, error) {
	var orders []models.Order
	if err := r.db.WithContext(ctx).Where("stripe_session_id = ?", sessionID).Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

// CancelOrdersBySessionID marks every order for the session cancelled. More
// than one match is possible when a session was double-submitted; all of them
// get the refund id and cancellation timestamp.
func (r *gormOrderRepo) CancelOrdersBySessionID(ctx context.Context, sessionID, refundID string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Order{}).
		Where("stripe_session_id = ?", sessionID).
		Updates(map[string]interface{}{
			"status":       models.StatusCancelled,
			"refund_id":    refundID,
			"cancelled_at": at,
		})
	return res.RowsAffected, res.Error
}

func (r *gormOrderRepo) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	var orders []models.Order
	q := r.db.WithContext(ctx).Order("created_at DESC")
	if status != "" && status != "all" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *gormOrderRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	updates := map[string]interface{}{"status": status}
	switch status {
	case models.StatusScheduled:
		updates["scheduled_date"] = at
	case models.StatusCompleted:
		updates["completed_date"] = at
	}

	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// RefundExists is the cancellation dedup check. Read-then-write with no
// transaction; concurrent cancellations of the same session are an accepted
// race.
func (r *gormOrderRepo) RefundExists(ctx context.Context, sessionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RefundRecord{}).
		Where("session_id = ?", sessionID).Count(&count).Error
	return count > 0, err
}

func (r *gormOrderRepo) CreateRefundRecord(ctx context.Context, record *models.RefundRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *gormOrderRepo) RecurringPaymentExists(ctx context.Context, invoiceID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.RecurringPayment{}).
		Where("invoice_id = ?", invoiceID).Count(&count).Error
	return count > 0, err
}

func (r *gormOrderRepo) CreateRecurringPayment(ctx context.Context, payment *models.RecurringPayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *gormOrderRepo) CreateFailedPayment(ctx context.Context, payment *models.FailedPayment) error {
	if payment.ID == uuid.Nil {
		payment.ID = uuid.New()
	}
	return r.db.WithContext(ctx).Create(payment).Error
}
