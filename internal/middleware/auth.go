package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/logger"
	"storefront/internal/models"
	"storefront/internal/session"
)

const (
	userKey = "user"

	LoginPath = "/login"
	// LoginRequiredMessage is flashed when a protected page bounces to login.
	LoginRequiredMessage = "로그인이 필요합니다. 로그인 페이지로 이동합니다."
)

// Refresher is the session controller as seen by the shell.
type Refresher interface {
	Refresh(ctx context.Context, s *session.Session) (*models.User, error)
}

// Shell refreshes the session from the API on every page view, so the
// navigation always shows the API's view of who is logged in. The fetched
// profile is kept in the context for pages that need it.
func Shell(ctrl Refresher) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		user, err := ctrl.Refresh(c.Request.Context(), sess)
		if c.Request.Context().Err() != nil {
			// client went away
			c.Abort()
			return
		}
		if err != nil {
			logger.FromContext(c).Debug("[SHELL] refresh failed", zap.Error(err))
		} else {
			c.Set(userKey, user)
		}
		c.Next()
	}
}

// UserFrom returns the profile fetched by Shell, if any.
func UserFrom(c *gin.Context) (*models.User, bool) {
	value, ok := c.Get(userKey)
	if !ok {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok && user != nil
}

// RequireLogin bounces anonymous shoppers to the login page.
func RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := SessionFrom(c)
		if sess.LoggedIn() {
			c.Next()
			return
		}

		sess.AddFlash(session.FlashError, LoginRequiredMessage)
		if err := CommitSession(c); err != nil {
			logger.FromContext(c).Error("[AUTH] session commit failed", zap.Error(err))
		}
		c.Redirect(http.StatusSeeOther, LoginPath)
		c.Abort()
	}
}
