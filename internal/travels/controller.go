package travels

import (
	"errors"
	"net/http"

	"busly/internal/shared/utils/response"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
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

func (c *Controller) Create(ctx *gin.Context) {
	var req CreateTravelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Validation failed", err.Error())
		return
	}

	travel, err := c.service.Create(ctx.Request.Context(), &req)
	if err != nil {
		response.Error(ctx, "Internal", "Failed to create travel")
		return
	}

	response.Success(ctx, http.StatusCreated, "Travel created successfully", travel)
}

func (c *Controller) List(ctx *gin.Context) {
	travels, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, "Internal", "Failed to fetch travels")
		return
	}

	response.Success(ctx, http.StatusOK, "Travels fetched successfully", gin.H{
		"results": len(travels),
		"travels": travels,
	})
}

func (c *Controller) GetByID(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid travel ID", nil)
		return
	}

	travel, err := c.service.GetByID(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrTravelNotFound):
			response.Fail(ctx, http.StatusNotFound, "NotFound", "No travel found with that ID", nil)
		default:
			response.Error(ctx, "Internal", "Failed to fetch travel")
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Travel fetched successfully", travel)
}

func (c *Controller) UpdateStatus(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid travel ID", nil)
		return
	}

	var req UpdateTravelStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid request body", err.Error())
		return
	}

	if err := c.service.UpdateStatus(ctx.Request.Context(), id, req.Status); err != nil {
		switch {
		case errors.Is(err, ErrInvalidStatus):
			response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid travel status", nil)
		case errors.Is(err, ErrTravelNotFound):
			response.Fail(ctx, http.StatusNotFound, "NotFound", "No travel found with that ID", nil)
		default:
			response.Error(ctx, "Internal", "Failed to update travel status")
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Travel status updated successfully", nil)
}
