package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/taskflow-api/config"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
	"github.com/oksasatya/taskflow-api/pkg/mailer"
	mailtpl "github.com/oksasatya/taskflow-api/pkg/mailer/templates"
)

type fakePublisher struct {
	bodies []any
	err    error
}

func (p *fakePublisher) PublishJSON(_ context.Context, body any) error {
	p.bodies = append(p.bodies, body)
	return p.err
}

type fakeSender struct {
	to, text string
	err      error
}

func (s *fakeSender) Send(_ context.Context, to, _, text, _ string) error {
	s.to, s.text = to, text
	return s.err
}

func testConfig() *config.Config {
	return &config.Config{AppName: "TaskFlow", ResetTokenTTL: time.Hour}
}

func TestQueueNotifier(t *testing.T) {
	p := &fakePublisher{}
	n := NewQueueNotifier(p, testConfig(), helpers.NewNopLogger())

	d := n.SendPasswordReset(context.Background(), "a@example.com", "http://x/reset?token=t")
	assert.True(t, d.Delivered)
	require.Len(t, p.bodies, 1)
	job, ok := p.bodies[0].(mailer.EmailJob)
	require.True(t, ok)
	assert.Equal(t, "a@example.com", job.To)
	assert.Equal(t, mailtpl.ForgotPassword, job.Template)
	assert.Equal(t, "http://x/reset?token=t", job.Data["ResetURL"])

	p.err = errors.New("channel closed")
	assert.False(t, n.SendPasswordReset(context.Background(), "a@example.com", "l").Delivered)
}

func TestMailgunNotifier(t *testing.T) {
	s := &fakeSender{}
	n := NewMailgunNotifier(s, testConfig(), helpers.NewNopLogger())

	assert.True(t, n.SendPasswordReset(context.Background(), "a@example.com", "http://x/reset?token=t").Delivered)
	assert.Equal(t, "a@example.com", s.to)
	assert.Contains(t, s.text, "http://x/reset?token=t")

	s.err = errors.New("401 from mailgun")
	assert.False(t, n.SendPasswordReset(context.Background(), "a@example.com", "l").Delivered)
}

func TestNoop(t *testing.T) {
	assert.False(t, Noop{}.SendPasswordReset(context.Background(), "a@example.com", "l").Delivered)
}
