package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v80"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/models"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/retry"
)

// fastRetry keeps retried pipeline steps from sleeping in tests.
func fastRetry() retry.Config {
	return retry.Config{MaxRetries: 1, InitialDelay: time.Millisecond, MaxDelay: time.Millisecond, Factor: 2}
}

// --- Mock Payment Gateway ---
type MockPaymentGateway struct {
	mock.Mock
}

func (m *MockPaymentGateway) ParseWebhook(r *http.Request) (stripe.Event, error) {
	args := m.Called(r)
	return args.Get(0).(stripe.Event), args.Error(1)
}
func (m *MockPaymentGateway) RetrieveSession(id string) (*stripe.CheckoutSession, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}
func (m *MockPaymentGateway) GetPaymentIntent(id string) (*stripe.PaymentIntent, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.PaymentIntent), args.Error(1)
}
func (m *MockPaymentGateway) CreateRefund(paymentIntentID string) (*stripe.Refund, error) {
	args := m.Called(paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.Refund), args.Error(1)
}
func (m *MockPaymentGateway) ListLineItems(sessionID string) ([]*stripe.LineItem, error) {
	args := m.Called(sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*stripe.LineItem), args.Error(1)
}
func (m *MockPaymentGateway) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	args := m.Called(params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*stripe.CheckoutSession), args.Error(1)
}

// --- Mock Order Repository ---
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}
func (m *MockOrderRepository) FindOrdersBySessionID(ctx context.Context, sessionID string) ([]models.Order, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}
func (m *MockOrderRepository) CancelOrdersBySessionID(ctx context.Context, sessionID, refundID string, at time.Time) (int64, error) {
	args := m.Called(ctx, sessionID, refundID, at)
	return args.Get(0).(int64), args.Error(1)
}
func (m *MockOrderRepository) ListOrders(ctx context.Context, status string) ([]models.Order, error) {
	args := m.Called(ctx, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Order), args.Error(1)
}
func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status string, at time.Time) error {
	args := m.Called(ctx, id, status, at)
	return args.Error(0)
}
func (m *MockOrderRepository) RefundExists(ctx context.Context, sessionID string) (bool, error) {
	args := m.Called(ctx, sessionID)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepository) CreateRefundRecord(ctx context.Context, record *models.RefundRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}
func (m *MockOrderRepository) RecurringPaymentExists(ctx context.Context, invoiceID string) (bool, error) {
	args := m.Called(ctx, invoiceID)
	return args.Bool(0), args.Error(1)
}
func (m *MockOrderRepository) CreateRecurringPayment(ctx context.Context, payment *models.RecurringPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}
func (m *MockOrderRepository) CreateFailedPayment(ctx context.Context, payment *models.FailedPayment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

// --- Mock Audit Repository ---
type MockAuditRepository struct {
	mock.Mock
}

func (m *MockAuditRepository) LogFailedWebhook(ctx context.Context, entry *models.FailedWebhook) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockAuditRepository) LogFailedEmail(ctx context.Context, entry *models.FailedEmail) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockAuditRepository) CreateNotification(ctx context.Context, entry *models.Notification) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockAuditRepository) LogEmailOutcome(ctx context.Context, entry *models.EmailLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}
func (m *MockAuditRepository) LogCancellation(ctx context.Context, entry *models.CancellationLog) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

// --- Mock Notifier ---
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) SendOrderConfirmations(ctx context.Context, eventID string, order *models.Order) error {
	args := m.Called(ctx, eventID, order)
	return args.Error(0)
}
func (m *MockNotifier) SendCancellationNotices(ctx context.Context, order *models.Order, refundID string) error {
	args := m.Called(ctx, order, refundID)
	return args.Error(0)
}

// --- Mock Event Publisher ---
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) SendOrderEvent(event models.OrderEvent) error {
	args := m.Called(event)
	return args.Error(0)
}
