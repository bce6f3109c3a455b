package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for every verification failure: malformed
// encoding, bad signature, wrong algorithm, missing subject or expiry.
var ErrInvalidToken = errors.New("invalid or expired token")

// JWTManager signs and verifies HS256 session tokens. The secret is fixed for
// the lifetime of the manager.
type JWTManager struct {
	secret    []byte
	AccessTTL time.Duration
	now       func() time.Time
}

func NewJWTManager(secret string, accessTTL time.Duration) *JWTManager {
	return &JWTManager{
		secret:    []byte(secret),
		AccessTTL: accessTTL,
		now:       time.Now,
	}
}

// WithClock replaces the time source, used by tests to move past expiry.
func (m *JWTManager) WithClock(now func() time.Time) *JWTManager {
	cp := *m
	cp.now = now
	return &cp
}

// Claims is the wire payload: {"sub", "email", "exp", "iat"}.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// SessionClaims is the verified identity carried by a request.
type SessionClaims struct {
	Subject   string
	Email     string
	ExpiresAt time.Time
}

// Issue signs a token for subject/email that expires after ttl.
func (m *JWTManager) Issue(subject, email string, ttl time.Duration) (string, time.Time, error) {
	now := m.now()
	exp := now.Add(ttl).Truncate(jwt.TimePrecision)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(exp),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// IssueAccess issues a token with the configured access TTL.
func (m *JWTManager) IssueAccess(subject, email string) (string, time.Time, error) {
	return m.Issue(subject, email, m.AccessTTL)
}

// Verify checks signature and expiry. Callers get ErrInvalidToken for any
// failure so the cause never reaches the client.
func (m *JWTManager) Verify(tokenStr string) (*SessionClaims, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil || !tkn.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" || claims.ExpiresAt == nil {
		return nil, ErrInvalidToken
	}
	return &SessionClaims{
		Subject:   claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
