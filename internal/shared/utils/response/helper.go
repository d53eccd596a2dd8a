package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func RespondJSON(c *gin.Context, status string, code int, message string, data interface{}, errors interface{}) {
	c.JSON(code, StandardApiResponse{
		Status:     status,
		StatusCode: code,
		Message:    message,
		Data:       data,
		Errors:     errors,
	})
}

// Success writes a success envelope.
func Success(c *gin.Context, code int, message string, data interface{}) {
	RespondJSON(c, "success", code, message, data, nil)
}

// Fail writes a client-error envelope ("fail") with a classification code.
func Fail(c *gin.Context, code int, classification, message string, details interface{}) {
	RespondJSON(c, "fail", code, message, nil, ErrorDetail{Code: classification, Details: details})
}

// Error writes a server-error envelope ("error") with a classification code.
func Error(c *gin.Context, classification, message string) {
	RespondJSON(c, "error", http.StatusInternalServerError, message, nil, ErrorDetail{Code: classification})
}
