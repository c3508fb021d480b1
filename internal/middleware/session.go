package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/logger"
	"storefront/internal/session"
)

const (
	sessionKey = "session"
	managerKey = "sessionManager"
)

// Sessions resolves the browser's session from its signed cookie and
// injects it into the context. Anything still unsaved after the handler
// ran is written back to the store.
func Sessions(m *session.Manager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(m.CookieName())
		sess, err := m.Load(c.Request.Context(), token)
		if err != nil {
			logger.FromContext(c).Error("[SESSION] load failed", zap.Error(err))
			c.AbortWithStatus(http.StatusServiceUnavailable)
			return
		}

		c.Set(sessionKey, sess)
		c.Set(managerKey, m)
		c.Next()

		if err := m.Save(c.Request.Context(), sess); err != nil {
			logger.FromContext(c).Error("[SESSION] late save failed", zap.String("sid", sess.ID()), zap.Error(err))
		}
	}
}

// SessionFrom returns the request's session. It panics when the Sessions
// middleware is not installed.
func SessionFrom(c *gin.Context) *session.Session {
	return c.MustGet(sessionKey).(*session.Session)
}

// CommitSession persists the session and sets its cookie. Handlers call it
// before writing a response, while headers can still change.
func CommitSession(c *gin.Context) error {
	value, ok := c.Get(managerKey)
	if !ok {
		return nil
	}
	m := value.(*session.Manager)
	sess := SessionFrom(c)

	if err := m.Save(c.Request.Context(), sess); err != nil {
		return err
	}
	cookie, err := m.Cookie(sess)
	if err != nil || cookie == nil {
		return err
	}
	http.SetCookie(c.Writer, cookie)
	return nil
}
