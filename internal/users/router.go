package users

import (
	"busly/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

// SetupProfileRoutes configures profile routes
func SetupProfileRoutes(rg *gin.RouterGroup, controller *Controller) {
	profile := rg.Group("/profile")
	profile.Use(middleware.JWTAuth())
	{
		profile.GET("/me", controller.GetProfile)         // GET   /api/v1/profile/me
		profile.PATCH("/update", controller.UpdateProfile) // PATCH /api/v1/profile/update
	}
}
