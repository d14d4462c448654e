// Package middleware contains shared Gin middleware used by the HTTP layer.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// HeaderUserID carries the caller's user identifier. The app trusts the
// gateway in front of it to have authenticated the user; this middleware only
// normalizes and stashes the value.
const HeaderUserID = "X-User-ID"

const ctxKeyUserID = "userID"

// UserIdentity stores the caller's user ID (from X-User-ID) in the Gin
// context so downstream middleware and handlers can key on it.
func UserIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid := strings.TrimSpace(c.GetHeader(HeaderUserID)); uid != "" {
			c.Set(ctxKeyUserID, uid)
		}
		c.Next()
	}
}

// UserIDFrom returns the user ID stashed by UserIdentity, or "" when the
// request carried none.
func UserIDFrom(c *gin.Context) string {
	if v, ok := c.Get(ctxKeyUserID); ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
