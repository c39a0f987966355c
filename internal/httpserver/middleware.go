package httpserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"storefront-gateway/internal/session"
)

const sessionCtxKey = "storefront.session"

// sessionMiddleware resolves the bearer session token and stores the
// session on the gin context.
func sessionMiddleware(sessions sessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			respondError(c, http.StatusUnauthorized, "session token required")
			c.Abort()
			return
		}
		s, ok := sessions.Get(token)
		if !ok {
			respondError(c, http.StatusUnauthorized, "invalid or expired session")
			c.Abort()
			return
		}
		c.Set(sessionCtxKey, s)
		c.Next()
	}
}

// requireAuth gates routes that need a platform-authenticated session.
func requireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := currentSession(c)
		if s == nil || !s.Authenticated() {
			respondError(c, http.StatusUnauthorized, "sign in required")
			c.Abort()
			return
		}
		c.Next()
	}
}

func currentSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionCtxKey)
	if !ok {
		return nil
	}
	s, _ := v.(*session.Session)
	return s
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if strings.HasPrefix(header, prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}
