package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/swiftbus/service-ticketing/internal/response"
	"github.com/swiftbus/service-ticketing/internal/session"
)

const sessionContextKey = "session"

// SessionCookieName is the cookie holding the opaque session token.
const SessionCookieName = "session_token"

// SessionMiddleware resolves the session cookie into a session.Session and
// attaches it to the request context. It never rejects: route groups decide
// whether a session is required.
func SessionMiddleware(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookieName)
		if err != nil || token == "" {
			c.Next()
			return
		}

		sess, err := store.Get(c.Request.Context(), token)
		if err != nil || sess == nil {
			c.Next()
			return
		}

		c.Set(sessionContextKey, sess)
		c.Next()
	}
}

// RequireSession aborts with 401 when no session was resolved.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetSession(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Body{
				Message: "please log in first",
				Code:    "unauthorized",
			})
			return
		}
		c.Next()
	}
}

// RequireAdmin aborts with 401 without a session and 403 without the admin flag.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := GetSession(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Body{
				Message: "please log in first",
				Code:    "unauthorized",
			})
			return
		}
		if !sess.IsAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Body{
				Message: "admin access required",
				Code:    "forbidden",
			})
			return
		}
		c.Next()
	}
}

// GetSession returns the resolved session for this request, if any.
func GetSession(c *gin.Context) (*session.Session, bool) {
	value, exists := c.Get(sessionContextKey)
	if !exists {
		return nil, false
	}
	sess, ok := value.(*session.Session)
	return sess, ok
}
