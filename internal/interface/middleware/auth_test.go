package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/taskflow-api/pkg/helpers"
)

func init() { gin.SetMode(gin.TestMode) }

func newJWT() *helpers.JWTManager {
	return helpers.NewJWTManager("test-secret", 30*time.Minute)
}

func TestAuthenticate(t *testing.T) {
	jwt := newJWT()
	tok, _, err := jwt.IssueAccess("user-1", "a@example.com")
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		ok     bool
	}{
		{"valid", "Bearer " + tok, true},
		{"lowercase scheme", "bearer " + tok, true},
		{"missing", "", false},
		{"no scheme", tok, false},
		{"wrong scheme", "Basic " + tok, false},
		{"empty token", "Bearer ", false},
		{"garbage", "Bearer not.a.jwt", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			claims, err := Authenticate(r, jwt)
			if !tc.ok {
				assert.ErrorIs(t, err, ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "user-1", claims.Subject)
			assert.Equal(t, "a@example.com", claims.Email)
		})
	}
}

func TestAuthenticate_Expired(t *testing.T) {
	jwt := newJWT()
	tok, _, err := jwt.WithClock(func() time.Time { return time.Now().Add(-time.Hour) }).IssueAccess("user-1", "a@example.com")
	require.NoError(t, err)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("Authorization", "Bearer "+tok)
	_, err = Authenticate(r, jwt)
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func ownerRouter(jwt *helpers.JWTManager) *gin.Engine {
	r := gin.New()
	g := r.Group("/api/:user_id", BearerAuth(jwt), RequireOwner("user_id"))
	g.GET("/tasks", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})
	return r
}

func TestBearerAuthAndOwner(t *testing.T) {
	jwt := newJWT()
	r := ownerRouter(jwt)
	tok, _, err := jwt.IssueAccess("user-1", "a@example.com")
	require.NoError(t, err)

	t.Run("owner", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/user-1/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", w.Body.String())
	})

	t.Run("someone else's path", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/user-2/tasks", nil)
		req.Header.Set("Authorization", "Bearer "+tok)
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("no token", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/user-1/tasks", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "Bearer", w.Header().Get("WWW-Authenticate"))
		assert.JSONEq(t, `{"detail":"Could not validate credentials"}`, w.Body.String())
	})
}
