// Package container holds the components built at startup so the router can
// wire modules from them.
package container

import (
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskflow-api/config"
	"github.com/oksasatya/taskflow-api/internal/application"
	"github.com/oksasatya/taskflow-api/internal/domain/repository"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

type Container struct {
	Config *config.Config
	Logger *logrus.Logger

	Store repository.Store
	// Pool is nil with STORAGE=memory.
	Pool *pgxpool.Pool
	// Redis is nil when rate limiting is off.
	Redis *redis.Client
	// ES is nil when ELASTICSEARCH_ADDRS is empty.
	ES *elasticsearch.Client

	JWT      *helpers.JWTManager
	Hasher   *helpers.Hasher
	Notifier application.Notifier

	closers []func()
}

// Close releases connections opened by Open, newest first.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// New fills the components every setup needs from cfg. Storage, Redis, ES
// and the notifier are attached by the caller.
func New(cfg *config.Config, logger *logrus.Logger) *Container {
	return &Container{
		Config: cfg,
		Logger: logger,
		JWT:    helpers.NewJWTManager(cfg.JWTSecret, cfg.AccessTTL),
		Hasher: helpers.NewHasher(cfg.BcryptCost),
	}
}
