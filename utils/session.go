package utils

import (
	"fmt"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
)

const (
	SessionName       = "rk_session"
	visitorSessionKey = "visitor_id"
)

// SessionMiddleware installs a cookie-backed session store signed with secret.
func SessionMiddleware(secret string, secure bool) gin.HandlerFunc {
	store := cookie.NewStore([]byte(secret))
	store.Options(sessions.Options{
		MaxAge:   60 * 60 * 24, // 1 day
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	})
	return sessions.Sessions(SessionName, store)
}

// SessionVisitorID returns the visitor already counted for this browser session.
func SessionVisitorID(c *gin.Context) (uint, bool) {
	id, ok := sessions.Default(c).Get(visitorSessionKey).(uint)
	return id, ok && id != 0
}

// RememberVisitor marks the session as counted.
func RememberVisitor(c *gin.Context, id uint) error {
	session := sessions.Default(c)
	session.Set(visitorSessionKey, id)
	if err := session.Save(); err != nil {
		return fmt.Errorf("session save failed: %v", err)
	}
	return nil
}
