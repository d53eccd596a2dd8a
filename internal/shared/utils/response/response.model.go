package response

type StandardApiResponse struct {
	Status     string      `json:"status"`           // "success", "fail" (client error) or "error" (server error)
	StatusCode int         `json:"status_code"`      // HTTP status code
	Message    string      `json:"message"`          // Human-readable message
	Data       interface{} `json:"data,omitempty"`   // Payload for success
	Errors     interface{} `json:"errors,omitempty"` // Validation or error details
}

// ErrorDetail carries a stable, scriptable classification code alongside
// the human-readable message.
type ErrorDetail struct {
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}
