package agencies

import (
	"busly/internal/shared/config"
	"busly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// Router handles agency-related routes
type Router struct {
	controller *Controller
	config     *config.Config
}

// NewRouter creates a new agency router
func NewRouter(controller *Controller, cfg *config.Config) *Router {
	return &Router{
		controller: controller,
		config:     cfg,
	}
}

// SetupRoutes registers all agency routes
func (agencyRouter *Router) SetupRoutes(rg *gin.RouterGroup) {
	agencies := rg.Group("/agencies")
	{
		// Public routes (browsing agencies needs no auth)
		agencies.GET("", agencyRouter.controller.List)
		agencies.GET("/:id", agencyRouter.controller.GetByID)

		// Admin-only management routes
		admin := agencies.Group("")
		admin.Use(middleware.JWTAuthWithConfig(agencyRouter.config))
		admin.Use(middleware.RequireAdmin())
		{
			admin.POST("", agencyRouter.controller.Create)
			admin.PATCH("/:id", agencyRouter.controller.Update)
			admin.DELETE("/:id", agencyRouter.controller.Delete)
		}
	}
}
