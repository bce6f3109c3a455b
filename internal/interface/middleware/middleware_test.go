package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get(RequestIDHeader))

	const incoming = "6f1c1f0e-1111-4b4b-8c8c-123456789abc"
	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, incoming)
	r.ServeHTTP(w, req)
	assert.Equal(t, incoming, w.Body.String())

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "<script>")
	r.ServeHTTP(w, req)
	assert.NotEqual(t, "<script>", w.Body.String())
}

func realIPRouter(trust bool) *gin.Engine {
	r := gin.New()
	r.Use(RealIP(trust))
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })
	return r
}

func TestRealIP(t *testing.T) {
	req := func() *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "10.0.0.5:1234"
		r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		return r
	}

	w := httptest.NewRecorder()
	realIPRouter(true).ServeHTTP(w, req())
	assert.Equal(t, "203.0.113.7", w.Body.String())

	w = httptest.NewRecorder()
	r := realIPRouter(false)
	_ = r.SetTrustedProxies(nil)
	r.ServeHTTP(w, req())
	assert.Equal(t, "10.0.0.5", w.Body.String())
}

func TestAllowPrivateIP(t *testing.T) {
	allow := AllowPrivateIP()
	for ip, want := range map[string]bool{"127.0.0.1": true, "192.168.1.2": true, "8.8.8.8": false, "junk": false} {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
		c.Set("real_ip", ip)
		assert.Equal(t, want, allow(c), ip)
	}
}

func TestRateLimit_NilClientPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/auth/signin", RateLimit(nil, 1, time.Minute, KeyByIPAndPath(), nil), func(c *gin.Context) { c.Status(http.StatusOK) })
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signin", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRateLimit_FailsOpenWhenRedisDown(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer func() { _ = rdb.Close() }()

	r := gin.New()
	r.POST("/auth/signin", RateLimit(rdb, 1, time.Minute, KeyByIPAndPath(), AllowNone()), func(c *gin.Context) { c.Status(http.StatusOK) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/signin", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestKeys(t *testing.T) {
	r := gin.New()
	var pathKey, userKey string
	r.GET("/api/:user_id/tasks", func(c *gin.Context) {
		c.Set("real_ip", "203.0.113.7")
		pathKey = KeyByIPAndPath()(c)
		userKey = KeyByUserID()(c)
		c.Set("userID", "u1")
		userKeyAuthed := KeyByUserID()(c)
		c.String(http.StatusOK, userKeyAuthed)
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/u1/tasks", nil))
	assert.Equal(t, "rl:path:/api/:user_id/tasks:ip:203.0.113.7", pathKey)
	assert.Equal(t, "rl:user:anon:ip:203.0.113.7", userKey)
	assert.Equal(t, "rl:user:u1", w.Body.String())
}
