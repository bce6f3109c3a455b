package main

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskflow-api/pkg/mailer"
)

type worker struct {
	sender  mailer.Sender
	logger  *logrus.Logger
	timeout time.Duration
}

// handle acks sent jobs, drops malformed ones and requeues send failures.
func (w *worker) handle(ctx context.Context, msg amqp.Delivery) {
	var job mailer.EmailJob
	if err := json.Unmarshal(msg.Body, &job); err != nil {
		w.logger.WithError(err).Warn("bad message")
		_ = msg.Nack(false, false)
		return
	}
	entry := w.logger.WithFields(logrus.Fields{"template": job.Template, "delivery_tag": msg.DeliveryTag})

	if err := mailer.RenderJob(&job); err != nil {
		entry.WithError(err).Error("render failed")
		_ = msg.Nack(false, false)
		return
	}

	c, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()
	if err := w.sender.Send(c, job.To, job.Subject, job.Text, job.HTML); err != nil {
		entry.WithError(err).Error("send failed")
		_ = msg.Nack(false, !errors.Is(err, context.Canceled))
		return
	}
	_ = msg.Ack(false)
	entry.Info("email sent")
}
