package router

import (
	"context"

	"github.com/oksasatya/taskflow-api/internal/application"
	"github.com/oksasatya/taskflow-api/internal/container"
	"github.com/oksasatya/taskflow-api/internal/infrastructure/notify"
	"github.com/oksasatya/taskflow-api/internal/infrastructure/search"
	handlers "github.com/oksasatya/taskflow-api/internal/interface/http"
	"github.com/oksasatya/taskflow-api/internal/router/modules"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

// Services are the application services built from a container.
type Services struct {
	Identity *application.IdentityService
	Tasks    *application.TaskService
}

func BuildServices(c *container.Container) (*Services, error) {
	notifier := c.Notifier
	if notifier == nil {
		notifier = notify.Noop{}
	}
	identity, err := application.NewIdentityService(
		c.Store,
		c.Hasher,
		c.JWT,
		application.NewResetTokenStore(c.Config.ResetTokenTTL),
		notifier,
		c.Logger,
		application.IdentityOptions{
			ResetPasswordURL: c.Config.ResetPasswordURL,
			ExposeResetLink:  c.Config.ExposeResetLink,
		},
	)
	if err != nil {
		return nil, err
	}

	tasks := application.NewTaskService(c.Store.Tasks(), nil, c.Logger)
	if idx := search.NewTaskIndex(c.ES, c.Config.ESTasksIndex); idx != nil {
		tasks.Index = idx
	}
	return &Services{Identity: identity, Tasks: tasks}, nil
}

func healthChecks(c *container.Container) map[string]handlers.HealthCheck {
	checks := map[string]handlers.HealthCheck{}
	if c.Pool != nil {
		checks["postgres"] = c.Pool.Ping
	}
	if c.Redis != nil {
		rdb := c.Redis
		checks["redis"] = func(ctx context.Context) error { return helpers.PingRedis(ctx, rdb) }
	}
	return checks
}

// InitModules builds the services and handlers and adds every module to r.
func InitModules(r *Registry, c *container.Container) error {
	svc, err := BuildServices(c)
	if err != nil {
		return err
	}

	r.Add(modules.NewHealthModule(handlers.NewHealthHandler(healthChecks(c))))
	r.Add(modules.NewAuthModule(
		handlers.NewAuthHandler(svc.Identity, c.Logger),
		handlers.NewUserHandler(svc.Identity, c.Logger),
		c.JWT,
		c.Redis,
	))
	r.Add(modules.NewTaskModule(handlers.NewTaskHandler(svc.Tasks, c.Logger), c.JWT, c.Redis))
	if c.Config.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(c.Redis))
	}
	return nil
}
