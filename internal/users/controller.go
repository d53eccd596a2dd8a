package users

import (
	"errors"
	"net/http"

	"busly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
)

type Controller struct {
	repo Repository
}

func NewController(repo Repository) *Controller {
	return &Controller{repo: repo}
}

// UpdateProfileRequest carries the profile fields a user may change
type UpdateProfileRequest struct {
	FullName    string `json:"full_name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
}

// GetProfile handles GET /api/v1/profile/me
func (c *Controller) GetProfile(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		response.Fail(ctx, http.StatusUnauthorized, "Unauthorized", "User not authenticated", nil)
		return
	}

	user, err := c.repo.GetByID(ctx.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Fail(ctx, http.StatusNotFound, "NotFound", "No user found with that ID", nil)
			return
		}
		response.Error(ctx, "Internal", "Failed to load profile")
		return
	}

	response.Success(ctx, http.StatusOK, "Profile retrieved successfully", gin.H{"user": user})
}

// UpdateProfile handles PATCH /api/v1/profile/update
func (c *Controller) UpdateProfile(ctx *gin.Context) {
	userID := ctx.GetString("user_id")
	if userID == "" {
		response.Fail(ctx, http.StatusUnauthorized, "Unauthorized", "User not authenticated", nil)
		return
	}

	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid request body", err.Error())
		return
	}

	// Only whitelisted fields can be updated
	updates := map[string]interface{}{}
	if req.FullName != "" {
		updates["full_name"] = req.FullName
	}
	if req.Email != "" {
		updates["email"] = req.Email
	}
	if req.PhoneNumber != "" {
		updates["phone_number"] = req.PhoneNumber
	}
	if req.Address != "" {
		updates["address"] = req.Address
	}

	user, err := c.repo.UpdateProfile(ctx.Request.Context(), userID, updates)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			response.Fail(ctx, http.StatusNotFound, "NotFound", "No user found with that ID", nil)
			return
		}
		response.Error(ctx, "Internal", "Failed to update profile")
		return
	}

	response.Success(ctx, http.StatusOK, "Profile updated successfully", gin.H{"user": user})
}
