package agencies

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
	var req CreateAgencyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Validation failed", err.Error())
		return
	}

	agency, err := c.service.Create(ctx.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAgencyNameTaken):
			response.Fail(ctx, http.StatusConflict, "AlreadyExists", "Agency with this name already exists", nil)
		default:
			response.Error(ctx, "Internal", "Failed to create agency")
		}
		return
	}

	response.Success(ctx, http.StatusCreated, "Agency created successfully", agency)
}

func (c *Controller) List(ctx *gin.Context) {
	agencies, err := c.service.List(ctx.Request.Context())
	if err != nil {
		response.Error(ctx, "Internal", "Failed to fetch agencies")
		return
	}

	response.Success(ctx, http.StatusOK, "Agencies fetched successfully", gin.H{
		"results":  len(agencies),
		"agencies": agencies,
	})
}

func (c *Controller) GetByID(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid agency ID", nil)
		return
	}

	agency, err := c.service.GetByID(ctx.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrAgencyNotFound):
			response.Fail(ctx, http.StatusNotFound, "NotFound", "No agency found with that ID", nil)
		default:
			response.Error(ctx, "Internal", "Failed to fetch agency")
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Agency fetched successfully", agency)
}

func (c *Controller) Update(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid agency ID", nil)
		return
	}

	var req UpdateAgencyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid request body", err.Error())
		return
	}

	agency, err := c.service.Update(ctx.Request.Context(), id, &req)
	if err != nil {
		switch {
		case errors.Is(err, ErrAgencyNotFound):
			response.Fail(ctx, http.StatusNotFound, "NotFound", "No agency found with that ID", nil)
		case errors.Is(err, ErrAgencyNameTaken):
			response.Fail(ctx, http.StatusConflict, "AlreadyExists", "Agency with this name already exists", nil)
		default:
			response.Error(ctx, "Internal", "Failed to update agency")
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Agency updated successfully", agency)
}

func (c *Controller) Delete(ctx *gin.Context) {
	id, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid agency ID", nil)
		return
	}

	if err := c.service.Delete(ctx.Request.Context(), id); err != nil {
		switch {
		case errors.Is(err, ErrAgencyNotFound):
			response.Fail(ctx, http.StatusNotFound, "NotFound", "No agency found with that ID", nil)
		default:
			response.Error(ctx, "Internal", "Failed to delete agency")
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Agency deleted successfully", nil)
}
