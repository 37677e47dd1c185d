package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/services"
)

// OrderDetailsController serves the display-formatted order summary shown on
// the post-checkout success page.
type OrderDetailsController struct {
	Stripe  services.PaymentGateway
	Builder *services.OrderBuilder
	Logger  *zap.Logger
}

func (oc *OrderDetailsController) GetOrderDetails(c *gin.Context) {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		respondError(c, oc.Logger, http.StatusBadRequest, "Session ID is required", nil)
		return
	}

	sess, err := oc.Stripe.RetrieveSession(sessionID)
	if err != nil {
		respondError(c, oc.Logger, http.StatusNotFound, "Session not found", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"orderDetails": oc.Builder.BuildSummary(sess),
	})
}
