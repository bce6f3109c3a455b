package templates

import (
	"strconv"
	"time"

	"github.com/oksasatya/taskflow-api/config"
)

// Option pattern
type Option func(*EmailData)

func WithResetURL(url string) Option { return func(d *EmailData) { d.ResetURL = url } }

func WithTime(t time.Time) Option {
	return func(d *EmailData) { d.Time = t.UTC().Format("02 January 2006, 15:04") }
}

func WithExpiresAt(t time.Time) Option {
	return func(d *EmailData) {
		utc := t.UTC()
		d.ExpiresAt = utc
		d.ExpiresAtText = utc.Format("02 January 2006, 15:04") + " UTC"
	}
}

// WithExpiresIn sets both the absolute expiry and a human duration such as "1 hour".
func WithExpiresIn(dur time.Duration) Option {
	return func(d *EmailData) {
		WithExpiresAt(time.Now().Add(dur))(d)
		d.ExpiresInText = HumanDuration(dur)
	}
}

// HumanDuration renders whole hours or minutes, e.g. "1 hour", "30 minutes".
func HumanDuration(d time.Duration) string {
	plural := func(n int, unit string) string {
		if n == 1 {
			return "1 " + unit
		}
		return strconv.Itoa(n) + " " + unit + "s"
	}
	if d >= time.Hour && d%time.Hour == 0 {
		return plural(int(d/time.Hour), "hour")
	}
	return plural(int(d/time.Minute), "minute")
}

// NewBaseEmailData fills the common fields from config, then applies opts.
func NewBaseEmailData(cfg *config.Config, typ, recipient string, opts ...Option) EmailData {
	d := EmailData{
		Email:          recipient,
		RecipientEmail: recipient,
		Type:           typ,
		CompanyName:    cfg.CompanyName,
		AppName:        cfg.AppName,
		SupportURL:     cfg.SupportURL,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func NewForgotPasswordData(cfg *config.Config, recipient, resetURL string, opts ...Option) map[string]any {
	opts = append([]Option{WithResetURL(resetURL), WithExpiresIn(cfg.ResetTokenTTL), WithTime(time.Now())}, opts...)
	d := NewBaseEmailData(cfg, ForgotPassword, recipient, opts...)
	return ToMap(d)
}
