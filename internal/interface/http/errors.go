package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskflow-api/internal/application"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
	"github.com/oksasatya/taskflow-api/pkg/response"
	"github.com/oksasatya/taskflow-api/pkg/validation"
)

const msgInternal = "Internal server error"

// bindJSON binds the body and answers 400 with field details on failure.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Validation(c, validation.ToDetails(err))
		return false
	}
	return true
}

// writeError maps application errors to HTTP answers. Anything it does not
// recognize is logged and answered with a generic 500.
func writeError(c *gin.Context, logger *logrus.Logger, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		response.Validation(c, map[string]string{verr.Field: verr.Reason})
	case errors.Is(err, application.ErrEmailTaken):
		response.Error(c, http.StatusConflict, "Email already registered")
	case errors.Is(err, application.ErrUnauthenticated):
		response.Unauthorized(c, "Incorrect email or password")
	case errors.Is(err, application.ErrInvalidOrExpiredToken):
		response.Error(c, http.StatusBadRequest, "Invalid or expired reset token")
	case errors.Is(err, application.ErrUserNotFound):
		response.Error(c, http.StatusNotFound, "User not found")
	case errors.Is(err, application.ErrTaskNotFound):
		response.Error(c, http.StatusNotFound, "Task not found")
	default:
		helpers.LogError(logger, "request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"route":      c.FullPath(),
		})
		response.Error(c, http.StatusInternalServerError, msgInternal)
	}
}
