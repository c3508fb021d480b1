package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/account"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

func signupDraft(sess *session.Session) *account.Form {
	form := &account.Form{}
	if _, err := sess.Page(account.SignupDraftKey, form); err != nil {
		return &account.Form{}
	}
	return form
}

func SignupPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /signup"
		sess := middleware.SessionFrom(c)
		if sess.LoggedIn() {
			redirect(c, route, "/")
			return
		}
		render(c, http.StatusOK, route, "signup", "회원가입", gin.H{"Form": signupDraft(sess)})
	}
}

// Signup handles the three signup buttons: the two uniqueness checks and
// the final submission. The draft survives in the session between them.
func Signup(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /signup"
		defer handlePanic(c, route)

		if err := parseMultipartForm(c); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}
		var fields account.Fields
		if err := c.ShouldBind(&fields); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		sess := middleware.SessionFrom(c)
		form := signupDraft(sess)
		ctx := c.Request.Context()

		show := func(status int, message string) {
			if err := sess.PutPage(account.SignupDraftKey, form); err != nil {
				logger.FromContext(c).Error("failed to keep signup draft", zap.Error(err))
			}
			render(c, status, route, "signup", "회원가입", gin.H{"Form": form, "Error": message})
		}

		switch c.PostForm("action") {
		case "check-email":
			form.Update(fields)
			svc.CheckEmail(ctx, form)
			show(http.StatusOK, "")
			return
		case "check-nickname":
			form.Update(fields)
			svc.CheckNickname(ctx, form)
			show(http.StatusOK, "")
			return
		}

		photo, err := readProfilePhoto(c)
		if err != nil {
			// the draft stays as it was
			render(c, http.StatusBadRequest, route, "signup", "회원가입", gin.H{
				"Form":  form,
				"Error": userMessage(err, account.ErrPhotoType.Error()),
			})
			return
		}

		form.Update(fields)
		if err := svc.Signup(ctx, form, photo); err != nil {
			show(http.StatusUnprocessableEntity, userMessage(err, account.MsgSignupError))
			return
		}
		sess.DropPage(account.SignupDraftKey)
		flashRedirect(c, route, session.FlashInfo, account.MsgSignupDone, middleware.LoginPath)
	}
}
