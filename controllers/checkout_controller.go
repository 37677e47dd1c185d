package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v80"
	"go.uber.org/zap"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/services"
)

// CheckoutController creates Stripe checkout sessions for the signup form.
type CheckoutController struct {
	Stripe    services.PaymentGateway
	Logger    *zap.Logger
	DomainURL string
}

type checkoutRequest struct {
	ServicePlan  string `json:"servicePlan" binding:"required"`
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Phone        string `json:"phone"`
	Address      string `json:"address" binding:"required"`
	DayOfPickup  string `json:"dayOfPickup"`
	TimeOfPickup string `json:"timeOfPickup"`
	Message      string `json:"message"`
}

func (cc *CheckoutController) CreateCheckout(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, cc.Logger, http.StatusBadRequest, "Invalid request", err)
		return
	}

	priceID, ok := services.PlanPriceIDs[req.ServicePlan]
	if !ok {
		respondError(c, cc.Logger, http.StatusBadRequest, "Invalid service plan", nil)
		return
	}

	message := req.Message
	if message == "" {
		message = "No message provided"
	}

	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL:    stripe.String(cc.DomainURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(cc.DomainURL + "/cancel"),
		CustomerEmail: stripe.String(req.Email),
		Metadata: map[string]string{
			"servicePlan":  req.ServicePlan,
			"name":         req.Name,
			"phone":        req.Phone,
			"address":      req.Address,
			"dayOfPickup":  req.DayOfPickup,
			"timeOfPickup": req.TimeOfPickup,
			"message":      message,
		},
	}

	sess, err := cc.Stripe.CreateCheckoutSession(params)
	if err != nil {
		respondError(c, cc.Logger, http.StatusInternalServerError, "Error creating checkout session", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "url": sess.URL})
}
