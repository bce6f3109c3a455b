package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskflow-api/config"
	"github.com/oksasatya/taskflow-api/internal/application"
	"github.com/oksasatya/taskflow-api/internal/container"
	"github.com/oksasatya/taskflow-api/internal/domain/entity"
	pginfra "github.com/oksasatya/taskflow-api/internal/infrastructure/postgres"
	"github.com/oksasatya/taskflow-api/internal/router"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

var demoTasks = []application.CreateTaskInput{
	{Title: "Read the API docs", Priority: entity.PriorityHigh},
	{Title: "Create your first task", Priority: entity.PriorityMedium},
	{Title: "Try the password reset flow", Priority: entity.PriorityLow},
}

// seed creates a demo account with a few tasks through the application
// services, so the same validation and hashing rules apply.
func main() {
	_ = godotenv.Load()
	email := flag.String("email", "demo@taskflow.local", "demo account email")
	password := flag.String("password", "password123", "demo account password")
	flag.Parse()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	if err := run(context.Background(), cfg, logger, *email, *password, os.Stdout); err != nil {
		logger.Fatalf("seed failed: %v", err)
	}
}

func run(ctx context.Context, cfg *config.Config, logger *logrus.Logger, email, password string, out io.Writer) error {
	cfg.MailSendEnabled = false
	cfg.RateLimitEnabled = false

	if cfg.Storage == "postgres" {
		if err := pginfra.RunMigrations(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}

	c, err := container.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	defer c.Close()

	svc, err := router.BuildServices(c)
	if err != nil {
		return fmt.Errorf("build services: %w", err)
	}
	return seed(ctx, svc, email, password, out)
}

func seed(ctx context.Context, svc *router.Services, email, password string, out io.Writer) error {
	u, err := svc.Identity.Signup(ctx, email, password)
	switch {
	case errors.Is(err, application.ErrEmailTaken):
		_, _ = fmt.Fprintf(out, "user %s already exists; nothing to do\n", email)
		return nil
	case err != nil:
		return fmt.Errorf("seed user: %w", err)
	}
	_, _ = fmt.Fprintf(out, "seeded user: id=%s email=%s password=%s\n", u.ID, u.Email, password)

	for _, in := range demoTasks {
		t, err := svc.Tasks.Create(ctx, u.ID, in)
		if err != nil {
			return fmt.Errorf("seed task: %w", err)
		}
		_, _ = fmt.Fprintf(out, "seeded task: id=%d title=%q\n", t.ID, t.Title)
	}
	return nil
}
