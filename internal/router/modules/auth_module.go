package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/taskflow-api/internal/interface/http"
	"github.com/oksasatya/taskflow-api/internal/interface/middleware"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

// AuthModule mounts /auth. Credential endpoints are rate limited per IP and
// path; a nil Redis client turns the limiter off.
type AuthModule struct {
	Handler *handlers.AuthHandler
	User    *handlers.UserHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
}

func NewAuthModule(h *handlers.AuthHandler, u *handlers.UserHandler, jwt *helpers.JWTManager, rdb *redis.Client) *AuthModule {
	return &AuthModule{Handler: h, User: u, JWT: jwt, RDB: rdb}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	signupLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	signinLimiter := middleware.RateLimit(m.RDB, 10, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetInitLimiter := middleware.RateLimit(m.RDB, 5, time.Minute, middleware.KeyByIPAndPath(), nil)
	resetConfirmLimiter := middleware.RateLimit(m.RDB, 30, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/signup", signupLimiter, m.Handler.Signup)
	auth.POST("/signin", signinLimiter, m.Handler.Signin)
	auth.POST("/forgot-password", resetInitLimiter, m.Handler.ForgotPassword)
	auth.POST("/reset-password", resetConfirmLimiter, m.Handler.ResetPassword)

	auth.GET("/me", middleware.BearerAuth(m.JWT), m.User.Me)
}
