package payments

import (
	"busly/internal/shared/config"
	"busly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles payment-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new payment router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all payment routes. The webhook is public, since
// the gateway cannot authenticate with a user token, and verification is
// public so polling clients and scheduled jobs can share it.
func (paymentRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	payments := rg.Group("/payments")
	{
		payments.GET("/verify/:transactionId", paymentRouter.controller.VerifyPayment)
		payments.POST("/webhook", paymentRouter.controller.HandleWebhook)

		protected := payments.Group("")
		protected.Use(middleware.JWTAuthWithConfig(paymentRouter.config))
		{
			protected.POST("/initiate", paymentRouter.controller.InitiatePayment)
		}
	}
}
