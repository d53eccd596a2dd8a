package bookings

import (
	"busly/internal/shared/config"
	"busly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles booking-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new booking router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all booking routes. Every route requires an
// authenticated user.
func (bookingRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	bookings := rg.Group("/bookings")
	bookings.Use(middleware.JWTAuthWithConfig(bookingRouter.config))
	{
		bookings.POST("", bookingRouter.controller.CreateBooking)
		bookings.GET("", bookingRouter.controller.ListBookings)
		bookings.GET("/stats", bookingRouter.controller.GetUserStats)
		bookings.GET("/history", bookingRouter.controller.GetTravelHistory)
		bookings.GET("/upcoming", bookingRouter.controller.GetUpcomingTrips)
		bookings.GET("/:id", bookingRouter.controller.GetBooking)
		bookings.DELETE("/:id", bookingRouter.controller.CancelBooking)
	}
}
