package application

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskflow-api/internal/domain/entity"
	"github.com/oksasatya/taskflow-api/internal/domain/repository"
	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

// MsgResetRequested is the only answer forgot-password ever gives, whether or
// not the email belongs to an account.
const MsgResetRequested = "If an account with that email exists, a password reset link has been sent."

// IdentityOptions carries the identity-related settings from config.Config.
type IdentityOptions struct {
	// ResetPasswordURL is the front-end page that receives ?token=.
	ResetPasswordURL string
	// ExposeResetLink puts the raw link in the response when mail delivery
	// fails. Development only: it hands a reset credential to whoever asked.
	ExposeResetLink bool
}

// IdentityService implements signup, signin and the password reset flow.
type IdentityService struct {
	Store    repository.Store
	Hasher   *helpers.Hasher
	JWT      *helpers.JWTManager
	Resets   *ResetTokenStore
	Notifier Notifier
	Logger   *logrus.Logger
	Opts     IdentityOptions

	// dummyHash is verified against on unknown emails so signin takes
	// about as long whether or not the account exists.
	dummyHash string
	newID     func() string
}

func NewIdentityService(store repository.Store, hasher *helpers.Hasher, jwt *helpers.JWTManager, resets *ResetTokenStore, notifier Notifier, logger *logrus.Logger, opts IdentityOptions) (*IdentityService, error) {
	dummy, err := hasher.HashPassword(uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("prepare dummy hash: %w", err)
	}
	return &IdentityService{
		Store:     store,
		Hasher:    hasher,
		JWT:       jwt,
		Resets:    resets,
		Notifier:  notifier,
		Logger:    logger,
		Opts:      opts,
		dummyHash: dummy,
		newID:     uuid.NewString,
	}, nil
}

type SignInResult struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	User        *entity.User
}

// ResetOutcome is returned by RequestPasswordReset. ResetLink is only set
// when delivery failed and ExposeResetLink is on.
type ResetOutcome struct {
	Message   string
	ResetLink string
}

// Signup validates the password, then creates the user. An email that is
// already registered yields ErrEmailTaken.
func (s *IdentityService) Signup(ctx context.Context, email, password string) (*entity.User, error) {
	if strings.TrimSpace(email) == "" {
		return nil, &ValidationError{Field: "email", Reason: "Email is required"}
	}
	if verr := ValidatePassword(password); verr != nil {
		return nil, verr
	}

	users := s.Store.Users()
	if _, err := users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	hash, err := s.Hasher.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{ID: s.newID(), Email: email, PasswordHash: hash}
	if err := users.Insert(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	s.Logger.WithField("user_id", u.ID).Info("user registered")
	return u, nil
}

// Signin checks credentials and issues a session token. Unknown email and
// wrong password both yield ErrUnauthenticated.
func (s *IdentityService) Signin(ctx context.Context, email, password string) (*SignInResult, error) {
	u, err := s.Store.Users().FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("lookup user: %w", err)
		}
		s.Hasher.CompareHashAndPassword(s.dummyHash, password)
		s.Logger.Debug("signin for unknown email")
		return nil, ErrUnauthenticated
	}
	if !s.Hasher.CompareHashAndPassword(u.PasswordHash, password) {
		s.Logger.WithField("user_id", u.ID).Info("signin with wrong password")
		return nil, ErrUnauthenticated
	}

	token, exp, err := s.JWT.IssueAccess(u.ID, u.Email)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	return &SignInResult{AccessToken: token, TokenType: "bearer", ExpiresAt: exp, User: u}, nil
}

// RequestPasswordReset always acknowledges with MsgResetRequested. For a known
// email it issues a token and mails the link; internal failures are logged
// and never change the response.
func (s *IdentityService) RequestPasswordReset(ctx context.Context, email string) *ResetOutcome {
	out := &ResetOutcome{Message: MsgResetRequested}

	u, err := s.Store.Users().FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			s.Logger.Debug("password reset requested for unknown email")
		} else {
			s.Logger.WithError(err).Error("password reset: lookup user failed")
		}
		return out
	}

	var tok *entity.ResetToken
	err = s.Store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		var ierr error
		tok, ierr = s.Resets.Issue(ctx, tx, u.ID)
		return ierr
	})
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("password reset: issue token failed")
		return out
	}

	link := s.resetLink(tok.Token)
	if d := s.Notifier.SendPasswordReset(ctx, u.Email, link); !d.Delivered {
		entry := s.Logger.WithField("user_id", u.ID)
		if s.Opts.ExposeResetLink {
			entry.Warn("password reset email not delivered; returning reset link in response (EXPOSE_RESET_LINK)")
			out.ResetLink = link
		} else {
			entry.Error("password reset email not delivered")
		}
	}
	return out
}

// CompletePasswordReset redeems the token and stores the new password hash in
// one transaction: either both happen or neither does.
func (s *IdentityService) CompletePasswordReset(ctx context.Context, token, newPassword string) error {
	if verr := ValidatePassword(newPassword); verr != nil {
		verr.Field = "new_password"
		return verr
	}
	hash, err := s.Hasher.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	return s.Store.WithTx(ctx, func(ctx context.Context, tx repository.Repositories) error {
		t, status, err := s.Resets.Redeem(ctx, tx, token)
		if err != nil {
			return err
		}
		if status != RedeemOK {
			s.Logger.WithField("reason", status.String()).Info("password reset rejected")
			return ErrInvalidOrExpiredToken
		}
		if err := tx.Users().UpdatePasswordHash(ctx, t.UserID, hash); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrInvalidOrExpiredToken
			}
			return fmt.Errorf("update password: %w", err)
		}
		s.Logger.WithField("user_id", t.UserID).Info("password reset completed")
		return nil
	})
}

// GetUser returns the account behind a verified session.
func (s *IdentityService) GetUser(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Store.Users().FindByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

func (s *IdentityService) resetLink(token string) string {
	return s.Opts.ResetPasswordURL + "?token=" + url.QueryEscape(token)
}
