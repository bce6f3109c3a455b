package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/taskflow-api/pkg/helpers"
	"github.com/oksasatya/taskflow-api/pkg/response"
)

var ErrUnauthorized = errors.New("could not validate credentials")

const claimsKey = "claims"

// Authenticate reads "Authorization: Bearer <token>" and verifies it.
// Every failure is ErrUnauthorized.
func Authenticate(r *http.Request, jwt *helpers.JWTManager) (*helpers.SessionClaims, error) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(strings.TrimSpace(h), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, ErrUnauthorized
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthorized
	}
	claims, err := jwt.Verify(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	return claims, nil
}

// BearerAuth rejects requests without a valid access token. On success it
// sets claims, userID and userEmail in the Gin context.
func BearerAuth(jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := Authenticate(c.Request, jwt)
		if err != nil {
			response.Unauthorized(c, "Could not validate credentials")
			return
		}
		c.Set(claimsKey, claims)
		c.Set("userID", claims.Subject)
		c.Set("userEmail", claims.Email)
		c.Next()
	}
}

// ClaimsFrom returns the claims stored by BearerAuth.
func ClaimsFrom(c *gin.Context) (*helpers.SessionClaims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*helpers.SessionClaims)
	return claims, ok
}

// RequireOwner allows the request only when the path parameter equals the
// authenticated subject. Must run after BearerAuth.
func RequireOwner(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			response.Unauthorized(c, "Could not validate credentials")
			return
		}
		if c.Param(param) != claims.Subject {
			response.Error(c, http.StatusForbidden, "Not authorized to access this resource")
			return
		}
		c.Next()
	}
}
