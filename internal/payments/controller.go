package payments

import (
	"errors"
	"net/http"

	"busly/internal/bookings"
	"busly/internal/shared/utils/response"
	"busly/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// InitiatePaymentRequest selects the booking to collect payment for
type InitiatePaymentRequest struct {
	BookingID string `json:"bookingId" validate:"required,uuid"`
}

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

func (c *Controller) InitiatePayment(ctx *gin.Context) {
	raw, exists := ctx.Get("user_id")
	if !exists {
		response.Fail(ctx, http.StatusUnauthorized, "Unauthorized", "Authentication required", nil)
		return
	}
	idStr, _ := raw.(string)
	userID, err := uuid.Parse(idStr)
	if err != nil {
		response.Fail(ctx, http.StatusUnauthorized, "Unauthorized", "Invalid user identity", nil)
		return
	}

	var req InitiatePaymentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid request body", err.Error())
		return
	}
	if err := c.validator.Struct(&req); err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Validation failed", err.Error())
		return
	}

	bookingID, err := uuid.Parse(req.BookingID)
	if err != nil {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Invalid booking ID", nil)
		return
	}

	resp, err := c.service.InitiatePayment(ctx.Request.Context(), bookingID, userID)
	if err != nil {
		var initErr *InitiationError
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			response.Fail(ctx, http.StatusNotFound, "NotFound", "No booking found with that ID", nil)
		case errors.Is(err, bookings.ErrNotOwner):
			response.Fail(ctx, http.StatusForbidden, "Forbidden", "You do not have access to this booking", nil)
		case errors.Is(err, ErrNotMomoBooking):
			response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Booking is not payable by mobile money", nil)
		case errors.Is(err, ErrPaymentNotPending):
			response.Fail(ctx, http.StatusConflict, "AlreadyFinalized", "Payment has already been initiated or settled", nil)
		case errors.As(err, &initErr):
			response.Fail(ctx, http.StatusBadGateway, "PaymentInitiationError", initErr.Error(), nil)
		default:
			response.Error(ctx, "Internal", "Failed to initiate payment")
		}
		return
	}

	response.Success(ctx, http.StatusOK, "Payment initiated successfully", resp)
}

func (c *Controller) VerifyPayment(ctx *gin.Context) {
	transactionID := ctx.Param("transactionId")
	if transactionID == "" {
		response.Fail(ctx, http.StatusBadRequest, "ValidationError", "Transaction ID is required", nil)
		return
	}

	verified, err := c.service.VerifyPayment(ctx.Request.Context(), transactionID)
	if err != nil {
		var verifyErr *VerificationError
		switch {
		case errors.Is(err, bookings.ErrBookingNotFound):
			response.Fail(ctx, http.StatusNotFound, "NotFound", "No booking found for that transaction", nil)
		case errors.As(err, &verifyErr):
			response.Fail(ctx, http.StatusBadGateway, "VerificationError", verifyErr.Error(), nil)
		default:
			response.Error(ctx, "Internal", "Failed to verify payment")
		}
		return
	}

	if !verified {
		response.Fail(ctx, http.StatusBadRequest, "VerificationError", "Payment not verified", nil)
		return
	}

	response.Success(ctx, http.StatusOK, "Payment verified successfully", nil)
}

// HandleWebhook always acknowledges with 200 so the gateway stops
// retrying; processing failures are logged server-side, never surfaced.
func (c *Controller) HandleWebhook(ctx *gin.Context) {
	var payload WebhookPayload
	if err := ctx.ShouldBindJSON(&payload); err != nil {
		ctx.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	// Errors here are intentionally not visible to the gateway.
	if err := c.service.HandleWebhook(ctx.Request.Context(), &payload); err != nil {
		logger.GetDefault().Error("webhook processing failed",
			"transaction_id", payload.TransactionID, "error", err)
	}

	ctx.JSON(http.StatusOK, gin.H{"received": true})
}
