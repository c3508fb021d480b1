package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/api"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

const (
	msgLoginRejected   = "이메일 또는 비밀번호가 올바르지 않습니다."
	msgLoginConnection = "서버와 연결할 수 없습니다."
)

type loginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

func LoginPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /login"
		if middleware.SessionFrom(c).LoggedIn() {
			redirect(c, route, "/")
			return
		}
		render(c, http.StatusOK, route, "login", "로그인", nil)
	}
}

func Login(ctrl *session.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /login"
		defer handlePanic(c, route)

		var req loginRequest
		if err := c.ShouldBind(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		sess := middleware.SessionFrom(c)
		if err := ctrl.Login(c.Request.Context(), sess, req.Email, req.Password); err != nil {
			logger.FromContext(c).Info("login failed", zap.String("email", req.Email), zap.Error(err))
			status, fallback := loginFailure(err)
			render(c, status, route, "login", "로그인", gin.H{
				"Email": req.Email,
				"Error": userMessage(err, fallback),
			})
			return
		}
		redirect(c, route, "/")
	}
}

// loginFailure maps a failed login to the page status and the text shown
// when the API gave no message of its own. Rejected credentials (a 4xx or
// status=false) and an unreachable API read differently.
func loginFailure(err error) (int, string) {
	var apiErr *api.Error
	if errors.As(err, &apiErr) && (apiErr.Kind == api.KindNetwork ||
		(apiErr.Kind == api.KindStatus && apiErr.Status >= http.StatusInternalServerError)) {
		return http.StatusBadGateway, msgLoginConnection
	}
	return http.StatusUnauthorized, msgLoginRejected
}

// Logout ends the session. A failed logout leaves the shopper logged in and
// only logs the error.
func Logout(ctrl *session.Controller) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /logout"
		defer handlePanic(c, route)

		if err := ctrl.Logout(c.Request.Context(), middleware.SessionFrom(c)); err != nil {
			logger.FromContext(c).Error("logout failed", zap.Error(err))
		}
		redirect(c, route, "/")
	}
}
