// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements bearer-token authentication. The middleware verifies
// the Authorization header through a narrow TokenVerifier interface and
// stores the resolved user id in the Gin context under "userID", where the
// logger, rate limiter, and handlers pick it up. Requests without a valid
// token are rejected with a 401 envelope; an absent or not-owned resource
// downstream is always a 404, so the token check is the only place a 401 can
// originate.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is the Gin context key under which the authenticated
// user id is stored.
const ContextUserIDKey = "userID"

// TokenVerifier validates a bearer token and returns the user id it was
// issued for. Implementations must be safe for concurrent use.
type TokenVerifier interface {
	Verify(token string) (userID string, err error)
}

// RequireAuth returns a Gin middleware that enforces bearer-token
// authentication on the routes it wraps.
//
// Behavior:
//   - Missing or malformed Authorization header → 401.
//   - Invalid or expired token → 401.
//   - Otherwise the user id is stored in the context and the chain proceeds.
func RequireAuth(v TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader("Authorization")
		token := strings.TrimPrefix(raw, "Bearer ")
		if raw == "" || token == raw || strings.TrimSpace(token) == "" {
			unauthorized(c, "missing bearer token")
			return
		}
		uid, err := v.Verify(strings.TrimSpace(token))
		if err != nil || uid == "" {
			unauthorized(c, "invalid or expired token")
			return
		}
		c.Set(ContextUserIDKey, uid)
		c.Next()
	}
}

// unauthorized aborts the request with the standard 401 envelope, keeping
// the shape aligned with handlers.ErrorResponse without importing it.
func unauthorized(c *gin.Context, msg string) {
	rid, _ := c.Get(requestIDKey)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": asString(rid),
		"code":       "unauthorized",
		"message":    msg,
	})
}
