package mailer

import (
	"fmt"
	"strings"

	mailtpl "github.com/oksasatya/taskflow-api/pkg/mailer/templates"
)

// DefaultSubject is used when a job carries a body but no subject.
func DefaultSubject(template string) string {
	switch strings.ToLower(template) {
	case mailtpl.ForgotPassword:
		return "Reset your password"
	default:
		return "Notification"
	}
}

// EnsureRecipient copies To into the template data when the producer left it out.
func EnsureRecipient(job *EmailJob) {
	if job.Data == nil {
		job.Data = map[string]any{}
	}
	if v, ok := job.Data["Email"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["Email"] = job.To
	}
	if v, ok := job.Data["RecipientEmail"]; !ok || fmt.Sprintf("%v", v) == "" {
		job.Data["RecipientEmail"] = job.To
	}
}
