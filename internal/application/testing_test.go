package application

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/taskflow-api/internal/infrastructure/memory"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

type sentMail struct {
	To   string
	Link string
}

type fakeNotifier struct {
	mu      sync.Mutex
	deliver bool
	sent    []sentMail
}

func (n *fakeNotifier) SendPasswordReset(_ context.Context, to, link string) Delivery {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, sentMail{To: to, Link: link})
	return Delivery{Delivered: n.deliver}
}

func (n *fakeNotifier) last(t *testing.T) sentMail {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.sent, "no mail sent")
	return n.sent[len(n.sent)-1]
}

type fixture struct {
	store    *memory.Store
	notifier *fakeNotifier
	svc      *IdentityService
}

func newFixture(t *testing.T, opts IdentityOptions) *fixture {
	t.Helper()
	if opts.ResetPasswordURL == "" {
		opts.ResetPasswordURL = "http://localhost:3000/auth/reset-password"
	}
	store := memory.NewStore()
	notifier := &fakeNotifier{deliver: true}
	svc, err := NewIdentityService(
		store,
		helpers.NewHasher(bcrypt.MinCost),
		helpers.NewJWTManager("test-secret", 30*time.Minute),
		NewResetTokenStore(time.Hour),
		notifier,
		helpers.NewNopLogger(),
		opts,
	)
	require.NoError(t, err)
	return &fixture{store: store, notifier: notifier, svc: svc}
}

// tokenFromLink pulls the token query parameter out of a reset link.
func tokenFromLink(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	tok := u.Query().Get("token")
	require.NotEmpty(t, tok, "no token in %q", link)
	return tok
}
