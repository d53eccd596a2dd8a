package bookings

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

func (c *Controller) CreateBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid request body", err.Error())
		return
	}

	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Validation failed", err.Error())
		return
	}

	resp, err := c.service.CreateBooking(ctx.Request.Context(), userID, &req)
	if err != nil {
		c.respondCreateError(ctx, err)
		return
	}

	response.Success(ctx, http.StatusCreated, "Booking created successfully", resp)
}

func (c *Controller) respondCreateError(ctx *gin.Context, err error) {
	var dupErr *DuplicateSeatError
	var conflictErr *SeatConflictError
	var rangeErr *SeatOutOfRangeError

	switch {
	case errors.As(err, &dupErr):
		response.Fail(ctx, http.StatusBadRequest, "DuplicateSeatInRequest", dupErr.Error(), nil)
	case errors.As(err, &conflictErr):
		response.Fail(ctx, http.StatusConflict, "SeatConflict", conflictErr.Error(), gin.H{
			"conflictingSeats": conflictErr.SeatNumbers,
			"busNumber":        conflictErr.BusNumber,
		})
	case errors.As(err, &rangeErr):
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", rangeErr.Error(), nil)
	case errors.Is(err, ErrMomoNumberRequired),
		errors.Is(err, ErrTotalAmountMismatch):
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", err.Error(), nil)
	default:
		response.Error(ctx, "Internal", "Failed to create booking")
	}
}

func (c *Controller) GetBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid booking ID", nil)
		return
	}

	booking, err := c.service.GetBooking(ctx.Request.Context(), bookingID, userID)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Fail(ctx, http.StatusNotFound, "NotFound", "No booking found with that ID", nil)
		case errors.Is(err, ErrNotOwner):
			response.Fail(ctx, http.StatusForbidden, "Forbidden", "You do not have access to this booking", nil)
		default:
			response.Error(ctx, "Internal", "Failed to fetch booking")
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Booking fetched successfully", booking)
}

func (c *Controller) CancelBooking(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookingID, err := uuid.Parse(ctx.Param("id"))
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid booking ID", nil)
		return
	}

	if err := c.service.CancelBooking(ctx.Request.Context(), bookingID, userID); err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.Fail(ctx, http.StatusNotFound, "NotFound", "No booking found with that ID", nil)
		case errors.Is(err, ErrNotOwner):
			response.Fail(ctx, http.StatusForbidden, "Forbidden", "You do not have access to this booking", nil)
		case errors.Is(err, ErrAlreadyFinalized):
			response.Fail(ctx, http.StatusConflict, "AlreadyFinalized", "Booking is already completed or cancelled", nil)
		default:
			response.Error(ctx, "Internal", "Failed to cancel booking")
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Booking cancelled successfully", nil)
}

func (c *Controller) ListBookings(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	bookings, err := c.service.ListBookings(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, "Internal", "Failed to fetch bookings")
		return
	}

	response.Success(ctx, http.StatusOK, "Bookings fetched successfully", gin.H{
		"results":  len(bookings),
		"bookings": bookings,
	})
}

func (c *Controller) GetUserStats(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	stats, err := c.service.GetUserStats(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, "Internal", "Failed to fetch booking stats")
		return
	}

	response.Success(ctx, http.StatusOK, "Booking stats fetched successfully", gin.H{"stats": stats})
}

func (c *Controller) GetTravelHistory(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	history, err := c.service.GetTravelHistory(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, "Internal", "Failed to fetch travel history")
		return
	}

	response.Success(ctx, http.StatusOK, "Travel history fetched successfully", gin.H{"history": history})
}

func (c *Controller) GetUpcomingTrips(ctx *gin.Context) {
	userID, ok := currentUserID(ctx)
	if !ok {
		return
	}

	upcoming, err := c.service.GetUpcomingTrips(ctx.Request.Context(), userID)
	if err != nil {
		response.Error(ctx, "Internal", "Failed to fetch upcoming trips")
		return
	}

	response.Success(ctx, http.StatusOK, "Upcoming trips fetched successfully", gin.H{"upcoming": upcoming})
}

// currentUserID pulls the authenticated user from the gin context set by
// the JWT middleware. Writes the error response itself when missing.
func currentUserID(ctx *gin.Context) (uuid.UUID, bool) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		response.Fail(ctx, http.StatusUnauthorized, "Unauthorized", "Authentication required", nil)
		return uuid.Nil, false
	}

	idStr, _ := raw.(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		response.Fail(ctx, http.StatusUnauthorized, "Unauthorized", "Invalid user identity", nil)
		return uuid.Nil, false
	}
	return userID, true
}
