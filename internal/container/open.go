package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskflow-api/config"
	"github.com/oksasatya/taskflow-api/internal/application"
	"github.com/oksasatya/taskflow-api/internal/infrastructure/memory"
	"github.com/oksasatya/taskflow-api/internal/infrastructure/notify"
	pginfra "github.com/oksasatya/taskflow-api/internal/infrastructure/postgres"
	"github.com/oksasatya/taskflow-api/internal/infrastructure/search"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
	"github.com/oksasatya/taskflow-api/pkg/mailer"
)

// Open connects everything cfg asks for. Optional backends (Redis, RabbitMQ,
// Elasticsearch) that fail to come up are logged and left out; storage
// failures are fatal.
func Open(ctx context.Context, cfg *config.Config, logger *logrus.Logger) (*Container, error) {
	c := New(cfg, logger)

	switch cfg.Storage {
	case "memory":
		logger.Warn("STORAGE=memory: data is lost on restart")
		c.Store = memory.NewStore()
	default:
		pool, err := pginfra.NewPool(ctx, pginfra.PoolConfig{
			DSN:         cfg.PostgresDSN(),
			MaxConns:    cfg.DBMaxConns,
			MinConns:    cfg.DBMinConns,
			MaxConnLife: cfg.DBMaxConnLife,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		c.Pool = pool
		c.closers = append(c.closers, pool.Close)
		c.Store = pginfra.NewStore(pool)
	}

	if cfg.RateLimitEnabled {
		rdb := helpers.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err := helpers.PingRedis(ctx, rdb); err != nil {
			logger.WithError(err).Warn("redis unavailable; rate limiting disabled")
			_ = rdb.Close()
		} else {
			c.Redis = rdb
			c.closers = append(c.closers, func() { _ = rdb.Close() })
		}
	}

	es, err := helpers.NewESClient(cfg.ESAddrs(), cfg.ElasticsearchUser, cfg.ElasticsearchPass)
	if err != nil {
		logger.WithError(err).Warn("elasticsearch client init failed; search falls back to the database")
	} else if idx := search.NewTaskIndex(es, cfg.ESTasksIndex); idx != nil {
		if err := idx.EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch index setup failed; search falls back to the database")
		} else {
			c.ES = es
		}
	}

	c.Notifier = openNotifier(cfg, logger, c)
	return c, nil
}

func openNotifier(cfg *config.Config, logger *logrus.Logger, c *Container) application.Notifier {
	if !cfg.MailSendEnabled {
		logger.Warn("MAIL_SEND_ENABLED=false; password reset emails are not sent")
		return notify.Noop{}
	}
	switch cfg.MailTransport {
	case "queue":
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Error("rabbitmq unavailable; password reset emails are not sent")
			return notify.Noop{}
		}
		c.closers = append(c.closers, pub.Close)
		return notify.NewQueueNotifier(pub, cfg, logger)
	case "mailgun":
		if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
			logger.Error("mailgun not configured; password reset emails are not sent")
			return notify.Noop{}
		}
		return notify.NewMailgunNotifier(mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender), cfg, logger)
	default:
		return notify.Noop{}
	}
}
