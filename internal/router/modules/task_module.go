package modules

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	handlers "github.com/oksasatya/taskflow-api/internal/interface/http"
	"github.com/oksasatya/taskflow-api/internal/interface/middleware"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

// TaskModule mounts /api/:user_id/tasks behind the bearer and owner guards.
type TaskModule struct {
	Handler *handlers.TaskHandler
	JWT     *helpers.JWTManager
	RDB     *redis.Client
}

func NewTaskModule(h *handlers.TaskHandler, jwt *helpers.JWTManager, rdb *redis.Client) *TaskModule {
	return &TaskModule{Handler: h, JWT: jwt, RDB: rdb}
}

func (m *TaskModule) Register(rg *gin.RouterGroup) {
	tasks := rg.Group("/api/:user_id/tasks")
	tasks.Use(
		middleware.BearerAuth(m.JWT),
		middleware.RequireOwner("user_id"),
		middleware.RateLimit(m.RDB, 120, time.Minute, middleware.KeyByUserID(), nil),
	)
	{
		tasks.GET("", m.Handler.List)
		tasks.POST("", m.Handler.Create)
		tasks.GET("/search", m.Handler.Search)
		tasks.GET("/:id", m.Handler.Get)
		tasks.PUT("/:id", m.Handler.Update)
		tasks.DELETE("/:id", m.Handler.Delete)
		tasks.PATCH("/:id/complete", m.Handler.ToggleComplete)
	}
}
