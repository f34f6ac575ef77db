package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the JSON envelope used for error replies.
type APIResponse struct {
	Status    int       `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	RequestID string    `json:"request_id"`
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Error     any       `json:"error,omitempty"`
}

// ErrorDetail is the value of APIResponse.Error.
type ErrorDetail struct {
	Kind    string            `json:"kind"`
	Details map[string]string `json:"details,omitempty"`
}

// NewError builds an error envelope for the current request.
func NewError(ctx *gin.Context, status int, message string, err any) APIResponse {
	if status == 0 {
		status = http.StatusBadRequest
	}
	return APIResponse{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
}

// Error writes an error envelope and aborts the handler chain.
func Error(ctx *gin.Context, status int, message string, err any) {
	body := NewError(ctx, status, message, err)
	ctx.AbortWithStatusJSON(body.Status, body)
}
