package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/account"
	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/session"
)

type navData struct {
	LoggedIn   bool
	Nickname   string
	Categories []models.Category
}

func handlePanic(c *gin.Context, route string) {
	if r := recover(); r != nil {
		logger.FromContext(c).Error("panic recovered", zap.String("route", route), zap.Any("panic", r), zap.Stack("stacktrace"))
		respondWithError(c, http.StatusInternalServerError, route, "일시적인 오류가 발생했습니다.")
	}
}

// page builds the template data every page shares: navigation state from
// the session and pending flash messages.
func page(c *gin.Context, title string, data gin.H) gin.H {
	sess := middleware.SessionFrom(c)
	out := gin.H{
		"Title": title,
		"Query": "",
		"Nav": navData{
			LoggedIn:   sess.LoggedIn(),
			Nickname:   sess.Nickname(),
			Categories: catalog.Categories,
		},
		"Flashes": sess.Flashes(),
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}

func render(c *gin.Context, status int, route, name, title string, data gin.H) {
	data = page(c, title, data)
	if err := middleware.CommitSession(c); err != nil {
		logger.FromContext(c).Error("session commit failed", zap.String("route", route), zap.Error(err))
	}
	c.HTML(status, name, data)
}

func redirect(c *gin.Context, route, location string) {
	if err := middleware.CommitSession(c); err != nil {
		logger.FromContext(c).Error("session commit failed", zap.String("route", route), zap.Error(err))
	}
	c.Redirect(http.StatusSeeOther, location)
}

// flashRedirect queues message for the next page and redirects there.
func flashRedirect(c *gin.Context, route, kind, message, location string) {
	middleware.SessionFrom(c).AddFlash(kind, message)
	redirect(c, route, location)
}

func respondWithError(c *gin.Context, status int, route string, message string) {
	logger.FromContext(c).Warn("returning error page", zap.String("route", route), zap.Int("status", status), zap.String("message", message))
	render(c, status, route, "error", "오류", gin.H{"Status": status, "Message": message})
	c.Abort()
}

// handleUnauthorized sends the shopper to the login page when err is a 401.
// The session was already invalidated by the service that saw it.
func handleUnauthorized(c *gin.Context, route string, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	logger.FromContext(c).Info("upstream session expired", zap.String("route", route))
	flashRedirect(c, route, session.FlashError, middleware.LoginRequiredMessage, middleware.LoginPath)
	return true
}

// userMessage picks the text shown for a failed action: client-side
// validation text, the API's own rejection message, or fallback.
func userMessage(err error, fallback string) string {
	var verr *account.ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Message
	case errors.Is(err, account.ErrPhotoTooLarge), errors.Is(err, account.ErrPhotoType):
		return err.Error()
	}
	if msg, ok := api.Rejection(err); ok && msg != "" {
		return msg
	}
	return fallback
}
