package travels

import (
	"busly/internal/shared/config"
	"busly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles travel-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new travel router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all travel routes
func (travelRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	travels := rg.Group("/travels")
	{
		// Public routes (schedule browsing needs no auth)
		travels.GET("", travelRouter.controller.List)
		travels.GET("/:id", travelRouter.controller.GetByID)

		// Admin-only management routes
		admin := travels.Group("")
		admin.Use(middleware.JWTAuthWithConfig(travelRouter.config))
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", travelRouter.controller.Create)
			admin.PATCH("/:id/status", travelRouter.controller.UpdateStatus)
		}
	}
}
