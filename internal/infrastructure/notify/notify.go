// Package notify implements application.Notifier on top of the mail stack:
// the RabbitMQ email queue, Mailgun directly, or nothing at all.
package notify

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskflow-api/config"
	"github.com/oksasatya/taskflow-api/internal/application"
	"github.com/oksasatya/taskflow-api/pkg/mailer"
	mailtpl "github.com/oksasatya/taskflow-api/pkg/mailer/templates"
)

// JobPublisher is satisfied by helpers.RabbitPublisher.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

func resetJob(cfg *config.Config, to, link string) mailer.EmailJob {
	return mailer.EmailJob{
		To:       to,
		Template: mailtpl.ForgotPassword,
		Data:     mailtpl.NewForgotPasswordData(cfg, to, link),
	}
}

// QueueNotifier enqueues reset emails for cmd/email_worker. Delivered means
// the broker accepted the job.
type QueueNotifier struct {
	Publisher JobPublisher
	Cfg       *config.Config
	Logger    *logrus.Logger
}

func NewQueueNotifier(p JobPublisher, cfg *config.Config, logger *logrus.Logger) *QueueNotifier {
	return &QueueNotifier{Publisher: p, Cfg: cfg, Logger: logger}
}

func (n *QueueNotifier) SendPasswordReset(ctx context.Context, to, link string) application.Delivery {
	if err := n.Publisher.PublishJSON(ctx, resetJob(n.Cfg, to, link)); err != nil {
		n.Logger.WithError(err).Error("enqueue password reset email failed")
		return application.Delivery{}
	}
	return application.Delivery{Delivered: true}
}

// MailgunNotifier renders and sends in the request path.
type MailgunNotifier struct {
	Sender mailer.Sender
	Cfg    *config.Config
	Logger *logrus.Logger
}

func NewMailgunNotifier(s mailer.Sender, cfg *config.Config, logger *logrus.Logger) *MailgunNotifier {
	return &MailgunNotifier{Sender: s, Cfg: cfg, Logger: logger}
}

func (n *MailgunNotifier) SendPasswordReset(ctx context.Context, to, link string) application.Delivery {
	if err := mailer.Deliver(ctx, n.Sender, resetJob(n.Cfg, to, link)); err != nil {
		n.Logger.WithError(err).Error("send password reset email failed")
		return application.Delivery{}
	}
	return application.Delivery{Delivered: true}
}

// Noop never delivers. With EXPOSE_RESET_LINK on, local setups still get a
// usable link back from forgot-password.
type Noop struct{}

func (Noop) SendPasswordReset(context.Context, string, string) application.Delivery {
	return application.Delivery{}
}

var (
	_ application.Notifier = (*QueueNotifier)(nil)
	_ application.Notifier = (*MailgunNotifier)(nil)
	_ application.Notifier = Noop{}
)
