package controllers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/services"
)

func newOrderDetailsSetup() (*MockPaymentGateway, *gin.Engine) {
	gateway := new(MockPaymentGateway)
	oc := &OrderDetailsController{
		Stripe:  gateway,
		Builder: services.NewOrderBuilder(gateway, zap.NewNop()),
		Logger:  zap.NewNop(),
	}

	router := gin.New()
	router.GET("/order-details", oc.GetOrderDetails)
	return gateway, router
}

func TestGetOrderDetails(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("Success - 200 With Summary", func(t *testing.T) {
		gateway, router := newOrderDetailsSetup()

		gateway.On("RetrieveSession", "cs_test_abc12345").Return(&stripe.CheckoutSession{
			ID:            "cs_test_abc12345",
			AmountTotal:   6000,
			CustomerEmail: "jane@example.com",
			PaymentIntent: &stripe.PaymentIntent{ID: "pi_test_789"},
			Metadata: map[string]string{
				"servicePlan":  "oneTime",
				"name":         "Jane Doe",
				"dayOfPickup":  "monday",
				"timeOfPickup": "morning",
			},
		}, nil).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/order-details?session_id=cs_test_abc12345", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "One-Time Service ($60)")
		assert.Contains(t, w.Body.String(), `"orderId":"test_789"`)
		assert.Contains(t, w.Body.String(), `"amount":"60.00"`)
	})

	t.Run("Missing Session ID - 400", func(t *testing.T) {
		gateway, router := newOrderDetailsSetup()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/order-details", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		gateway.AssertNotCalled(t, "RetrieveSession", mock.Anything)
	})

	t.Run("Unknown Session - 404", func(t *testing.T) {
		gateway, router := newOrderDetailsSetup()

		gateway.On("RetrieveSession", "cs_test_missing").
			Return(nil, errors.New("no such checkout session")).Once()

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/order-details?session_id=cs_test_missing", nil)
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Session not found")
	})
}
