package controllers

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/models"
)

func newCancelSetup() (*MockPaymentGateway, *MockOrderRepository, *MockAuditRepository, *MockNotifier, *MockEventPublisher, *gin.Engine) {
	gateway := new(MockPaymentGateway)
	orders := new(MockOrderRepository)
	audit := new(MockAuditRepository)
	notifier := new(MockNotifier)
	events := new(MockEventPublisher)

	cc := &CancelController{
		Stripe:   gateway,
		Orders:   orders,
		Audit:    audit,
		Notifier: notifier,
		Events:   events,
		Logger:   zap.NewNop(),
		Retry:    fastRetry(),
	}

	router := gin.New()
	router.POST("/cancel-order", cc.CancelOrder)
	return gateway, orders, audit, notifier, events, router
}

func postCancel(router *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/cancel-order", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	return w
}

func cancellableOrder(sessionID string) models.Order {
	return models.Order{
		ID:              uuid.New(),
		StripeSessionID: sessionID,
		CustomerName:    "Jane Doe",
		CustomerEmail:   "jane@example.com",
		ServicePlan:     models.PlanOneTime,
		Amount:          60,
		Status:          models.StatusActive,
	}
}

func TestCancelOrder(t *testing.T) {
	gin.SetMode(gin.TestMode)

	session := &stripe.CheckoutSession{
		ID:            "cs_test_1",
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_test_1"},
	}

	t.Run("Missing Session ID - 400", func(t *testing.T) {
		gateway, orders, _, _, _, router := newCancelSetup()

		w := postCancel(router, `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Session ID is required")
		orders.AssertNotCalled(t, "RefundExists", mock.Anything, mock.Anything)
		gateway.AssertNotCalled(t, "CreateRefund", mock.Anything)
	})

	t.Run("Already Refunded - 400 No Refund Call", func(t *testing.T) {
		gateway, orders, _, _, _, router := newCancelSetup()

		orders.On("RefundExists", mock.Anything, "cs_test_1").Return(true, nil).Once()

		w := postCancel(router, `{"sessionId":"cs_test_1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "already been refunded")
		gateway.AssertNotCalled(t, "RetrieveSession", mock.Anything)
		gateway.AssertNotCalled(t, "CreateRefund", mock.Anything)
	})

	t.Run("Session Not Found - 404", func(t *testing.T) {
		gateway, orders, _, _, _, router := newCancelSetup()

		orders.On("RefundExists", mock.Anything, "cs_test_1").Return(false, nil).Once()
		gateway.On("RetrieveSession", "cs_test_1").Return(nil, errors.New("no such checkout session"))

		w := postCancel(router, `{"sessionId":"cs_test_1"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Session not found")
		gateway.AssertNotCalled(t, "CreateRefund", mock.Anything)
	})

	t.Run("No Payment Intent - 400", func(t *testing.T) {
		gateway, orders, _, _, _, router := newCancelSetup()

		orders.On("RefundExists", mock.Anything, "cs_test_1").Return(false, nil).Once()
		gateway.On("RetrieveSession", "cs_test_1").
			Return(&stripe.CheckoutSession{ID: "cs_test_1"}, nil).Once()

		w := postCancel(router, `{"sessionId":"cs_test_1"}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "No payment found for this session")
		gateway.AssertNotCalled(t, "CreateRefund", mock.Anything)
	})

	t.Run("Order Not Found - 404 No Refund Call", func(t *testing.T) {
		gateway, orders, _, _, _, router := newCancelSetup()

		orders.On("RefundExists", mock.Anything, "cs_test_1").Return(false, nil).Once()
		gateway.On("RetrieveSession", "cs_test_1").Return(session, nil).Once()
		orders.On("FindOrdersBySessionID", mock.Anything, "cs_test_1").Return([]models.Order{}, nil).Once()

		w := postCancel(router, `{"sessionId":"cs_test_1"}`)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Order not found")
		gateway.AssertNotCalled(t, "CreateRefund", mock.Anything)
	})

	t.Run("Refund Failure - 500", func(t *testing.T) {
		gateway, orders, _, notifier, _, router := newCancelSetup()

		orders.On("RefundExists", mock.Anything, "cs_test_1").Return(false, nil).Once()
		gateway.On("RetrieveSession", "cs_test_1").Return(session, nil).Once()
		orders.On("FindOrdersBySessionID", mock.Anything, "cs_test_1").
			Return([]models.Order{cancellableOrder("cs_test_1")}, nil).Once()
		gateway.On("CreateRefund", "pi_test_1").Return(nil, errors.New("charge already refunded"))

		w := postCancel(router, `{"sessionId":"cs_test_1"}`)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Contains(t, w.Body.String(), "Failed to process refund")
		notifier.AssertNotCalled(t, "SendCancellationNotices", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Success - 200 With Refund ID", func(t *testing.T) {
		gateway, orders, audit, notifier, events, router := newCancelSetup()
		order := cancellableOrder("cs_test_1")

		orders.On("RefundExists", mock.Anything, "cs_test_1").Return(false, nil).Once()
		gateway.On("RetrieveSession", "cs_test_1").Return(session, nil).Once()
		orders.On("FindOrdersBySessionID", mock.Anything, "cs_test_1").
			Return([]models.Order{order}, nil).Once()
		gateway.On("CreateRefund", "pi_test_1").Return(&stripe.Refund{ID: "re_test_1"}, nil).Once()
		orders.On("CancelOrdersBySessionID", mock.Anything, "cs_test_1", "re_test_1", mock.Anything).
			Return(int64(1), nil).Once()
		notifier.On("SendCancellationNotices", mock.Anything, mock.Anything, "re_test_1").Return(nil).Once()
		orders.On("CreateRefundRecord", mock.Anything, mock.MatchedBy(func(r *models.RefundRecord) bool {
			return r.SessionID == "cs_test_1" && r.RefundID == "re_test_1" && r.Amount == 60
		})).Return(nil).Once()
		audit.On("LogCancellation", mock.Anything, mock.MatchedBy(func(l *models.CancellationLog) bool {
			return l.RefundID == "re_test_1" && l.OrdersCancelled == 1
		})).Return(nil).Once()
		events.On("SendOrderEvent", mock.MatchedBy(func(e models.OrderEvent) bool {
			return e.Type == models.OrderEventCancelled && e.StripeSessionID == "cs_test_1"
		})).Return(nil).Once()

		w := postCancel(router, `{"sessionId":"cs_test_1"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "re_test_1")
		assert.Contains(t, w.Body.String(), "Order cancelled and refund initiated")
		orders.AssertExpectations(t)
		audit.AssertExpectations(t)
		notifier.AssertExpectations(t)
		events.AssertExpectations(t)
	})

	t.Run("Email Failure After Refund - Still 200", func(t *testing.T) {
		gateway, orders, audit, notifier, events, router := newCancelSetup()
		order := cancellableOrder("cs_test_1")

		orders.On("RefundExists", mock.Anything, "cs_test_1").Return(false, nil).Once()
		gateway.On("RetrieveSession", "cs_test_1").Return(session, nil).Once()
		orders.On("FindOrdersBySessionID", mock.Anything, "cs_test_1").
			Return([]models.Order{order}, nil).Once()
		gateway.On("CreateRefund", "pi_test_1").Return(&stripe.Refund{ID: "re_test_2"}, nil).Once()
		orders.On("CancelOrdersBySessionID", mock.Anything, "cs_test_1", "re_test_2", mock.Anything).
			Return(int64(1), nil).Once()
		notifier.On("SendCancellationNotices", mock.Anything, mock.Anything, "re_test_2").
			Return(errors.New("smtp down")).Once()
		orders.On("CreateRefundRecord", mock.Anything, mock.Anything).Return(nil).Once()
		audit.On("LogCancellation", mock.Anything, mock.Anything).Return(nil).Once()
		events.On("SendOrderEvent", mock.Anything).Return(nil).Once()

		w := postCancel(router, `{"sessionId":"cs_test_1"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "re_test_2")
	})
}
