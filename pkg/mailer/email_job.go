package mailer

import (
	"context"
	"errors"
	"fmt"

	mailtpl "github.com/oksasatya/taskflow-api/pkg/mailer/templates"
)

// EmailJob is the JSON payload put on the RabbitMQ queue for sending email.
// Html is optional; Text is recommended as fallback.
// You can also use a template by specifying Template and Data.
type EmailJob struct {
	To       string         `json:"to"`
	Subject  string         `json:"subject,omitempty"`
	Text     string         `json:"text,omitempty"`
	HTML     string         `json:"html,omitempty"`
	Template string         `json:"template,omitempty"` // e.g. "forgot_password"
	Data     map[string]any `json:"data,omitempty"`
}

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, to, subject, text, html string) error
}

var ErrEmptyJob = errors.New("email job has no recipient or body")

// RenderJob fills Subject/Text/HTML from the job's template, if any.
func RenderJob(job *EmailJob) error {
	if job.To == "" {
		return ErrEmptyJob
	}
	EnsureRecipient(job)
	if job.Template == "" {
		if job.Text == "" && job.HTML == "" {
			return ErrEmptyJob
		}
		if job.Subject == "" {
			job.Subject = DefaultSubject(job.Template)
		}
		return nil
	}
	s, t, h, err := mailtpl.Render(job.Template, job.Data)
	if err != nil {
		return fmt.Errorf("render %s: %w", job.Template, err)
	}
	job.Subject, job.Text, job.HTML = s, t, h
	return nil
}

// Deliver renders the job and hands it to s.
func Deliver(ctx context.Context, s Sender, job EmailJob) error {
	if err := RenderJob(&job); err != nil {
		return err
	}
	return s.Send(ctx, job.To, job.Subject, job.Text, job.HTML)
}
