package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roksva123/go-bizadmin-backend/internal/model"
	"github.com/roksva123/go-bizadmin-backend/internal/service"
)

const sessionKey = "session"

// SessionParser turns a bearer token into a verified session.
type SessionParser interface {
	Parse(token string) (*service.Session, error)
}

// Auth requires a valid "Authorization: Bearer <token>" header. WebSocket
// upgrades may pass the token as the access_token query parameter instead,
// since browsers cannot set headers on them.
func Auth(parser SessionParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := bearerToken(c)
		if !ok {
			abort(c, http.StatusUnauthorized, "missing token")
			return
		}

		session, err := parser.Parse(tokenString)
		if err != nil {
			abort(c, http.StatusUnauthorized, err.Error())
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

func bearerToken(c *gin.Context) (string, bool) {
	auth := c.GetHeader("Authorization")
	if auth == "" {
		if c.GetHeader("Upgrade") != "" {
			t := c.Query("access_token")
			return t, t != ""
		}
		return "", false
	}

	parts := strings.SplitN(auth, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

// RequireAdmin lets only sessions with the admin role through.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		s := SessionFrom(c)
		if s == nil || !s.IsAdmin() {
			abort(c, http.StatusForbidden, "admin only")
			return
		}
		c.Next()
	}
}

// SessionFrom returns the session stored by Auth, or nil.
func SessionFrom(c *gin.Context) *service.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	s, _ := v.(*service.Session)
	return s
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, model.ResponseApi{ApiMessage: msg})
}
