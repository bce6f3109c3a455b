package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskflow-api/internal/application"
	"github.com/oksasatya/taskflow-api/internal/interface/middleware"
	"github.com/oksasatya/taskflow-api/pkg/response"
)

type UserHandler struct {
	Svc    *application.IdentityService
	Logger *logrus.Logger
}

func NewUserHandler(svc *application.IdentityService, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Svc: svc, Logger: logger}
}

// Me returns the account behind the bearer token.
func (h *UserHandler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Unauthorized(c, "Could not validate credentials")
		return
	}
	u, err := h.Svc.GetUser(c.Request.Context(), claims.Subject)
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, userResponse{ID: u.ID, Email: u.Email, CreatedAt: u.CreatedAt, UpdatedAt: &u.UpdatedAt})
}
