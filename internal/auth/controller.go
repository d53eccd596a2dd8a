package auth

import (
	"net/http"

	"busly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type Controller struct {
	service   Service
	validator *validator.Validate
}

func NewController(service Service) *Controller {
	return &Controller{
		service:   service,
		validator: validator.New(),
	}
}

func (c *Controller) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Validation failed", err.Error())
		return
	}

	resp, err := c.service.Register(ctx.Request.Context(), &req)
	if err != nil {
		switch err {
		case ErrUserAlreadyExists:
			response.Fail(ctx, http.StatusConflict, "AlreadyExists", "User with this email already exists", nil)
		default:
			response.Error(ctx, "Internal", "Failed to register user")
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "User registered successfully", resp)
}

func (c *Controller) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Validation failed", err.Error())
		return
	}

	resp, err := c.service.Login(ctx.Request.Context(), &req)
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			response.Fail(ctx, http.StatusUnauthorized, "InvalidCredentials", "Invalid email or password", nil)
		default:
			response.Error(ctx, "Internal", "Failed to login")
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Login successful", resp)
}

func (c *Controller) RefreshToken(ctx *gin.Context) {
	var req RefreshTokenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Validation failed", err.Error())
		return
	}

	tokenPair, err := c.service.RefreshToken(ctx.Request.Context(), req.RefreshToken)
	if err != nil {
		switch err {
		case ErrInvalidToken, ErrTokenExpired:
			response.Fail(ctx, http.StatusUnauthorized, "InvalidToken", "Invalid or expired refresh token", nil)
		case ErrUserNotFound:
			response.Fail(ctx, http.StatusUnauthorized, "NotFound", "User not found", nil)
		default:
			response.Error(ctx, "Internal", "Failed to refresh token")
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Token refreshed successfully", tokenPair)
}

func (c *Controller) ChangePassword(ctx *gin.Context) {
	userID, exists := ctx.Get("user_id")
	if !exists {
		response.Fail(ctx, http.StatusUnauthorized, "Unauthorized", "User not authenticated", nil)
		return
	}

	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Validation failed", err.Error())
		return
	}

	err := c.service.ChangePassword(ctx.Request.Context(), userID.(string), &req)
	if err != nil {
		switch err {
		case ErrInvalidCredentials:
			response.Fail(ctx, http.StatusUnauthorized, "InvalidCredentials", "Current password is incorrect", nil)
		case ErrUserNotFound:
			response.Fail(ctx, http.StatusNotFound, "NotFound", "User not found", nil)
		default:
			response.Error(ctx, "Internal", "Failed to change password")
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Password changed successfully", nil)
}
