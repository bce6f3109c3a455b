package response

import (
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// APIResponse is the envelope for task endpoints.
type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
}

// ErrorBody is the shape of every error response.
type ErrorBody struct {
	Detail string            `json:"detail"`
	Errors map[string]string `json:"errors,omitempty"`
}

func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

// Error writes {"detail": message} and aborts the chain.
func Error(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{Detail: message})
}

// Validation writes a 400 whose detail is the first field message in key
// order, with every field message under "errors".
func Validation(ctx *gin.Context, details map[string]string) {
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	detail := "invalid request"
	if len(keys) > 0 {
		detail = details[keys[0]]
	}
	ctx.AbortWithStatusJSON(http.StatusBadRequest, ErrorBody{Detail: detail, Errors: details})
}

// Unauthorized answers 401 with a bearer challenge.
func Unauthorized(ctx *gin.Context, message string) {
	ctx.Header("WWW-Authenticate", "Bearer")
	Error(ctx, http.StatusUnauthorized, message)
}
