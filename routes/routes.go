package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/controllers"
	"github.com/ByteFlowWebAgency/buckeye-bin-cleaning/middleware"
)

type Controllers struct {
	Webhook      *controllers.WebhookController
	Cancel       *controllers.CancelController
	Checkout     *controllers.CheckoutController
	OrderDetails *controllers.OrderDetailsController
	Location     *controllers.LocationController
	Admin        *controllers.AdminController
}

func Register(r *gin.Engine, c Controllers, jwtSecret string) {
	// Stripe calls this; signature verification is the only auth.
	r.POST("/stripe/webhook", c.Webhook.StripeWebhook)

	r.POST("/create-checkout", c.Checkout.CreateCheckout)
	r.POST("/cancel-order", c.Cancel.CancelOrder)
	r.GET("/order-details", c.OrderDetails.GetOrderDetails)
	r.POST("/validate-location", c.Location.ValidateLocation)

	r.POST("/admin/login", c.Admin.Login)

	admin := r.Group("/admin")
	admin.Use(middleware.AdminAuthMiddleware(jwtSecret))
	admin.GET("/orders", c.Admin.ListOrders)
	admin.PATCH("/orders/:id/status", c.Admin.UpdateOrderStatus)
}
