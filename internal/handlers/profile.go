package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/account"
	"storefront/internal/api"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/session"
)

const profileDraftKey = "profile"

type profileRequest struct {
	Nickname    string `form:"nickname"`
	PhoneNumber string `form:"phoneNumber"`
}

// profileDraft resumes an edit in progress for this shopper, or starts one
// from the profile Shell fetched.
func profileDraft(sess *session.Session, user *models.User) *account.ProfileForm {
	var draft account.ProfileForm
	if ok, err := sess.Page(profileDraftKey, &draft); err == nil && ok && draft.Original == user.Nickname {
		return &draft
	}
	return account.NewProfileForm(user.Nickname, user.PhoneNumber)
}

func UserPageRedirect() gin.HandlerFunc {
	return func(c *gin.Context) {
		redirect(c, "GET /mypage/userpage", "/mypage/userpage/info")
	}
}

func ProfilePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /mypage/userpage/info"
		defer handlePanic(c, route)

		user, ok := middleware.UserFrom(c)
		if !ok {
			flashRedirect(c, route, session.FlashError, account.MsgProfileLoadFailed, middleware.LoginPath)
			return
		}
		form := profileDraft(middleware.SessionFrom(c), user)
		render(c, http.StatusOK, route, "profile", "마이페이지", gin.H{"User": user, "Form": form})
	}
}

func UpdateProfile(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /mypage/userpage/info"
		defer handlePanic(c, route)

		user, ok := middleware.UserFrom(c)
		if !ok {
			flashRedirect(c, route, session.FlashError, account.MsgProfileLoadFailed, middleware.LoginPath)
			return
		}
		if err := parseMultipartForm(c); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}
		var req profileRequest
		if err := c.ShouldBind(&req); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}

		sess := middleware.SessionFrom(c)
		form := profileDraft(sess, user)
		show := func(status int, message string) {
			if err := sess.PutPage(profileDraftKey, form); err != nil {
				logger.FromContext(c).Error("failed to keep profile draft", zap.Error(err))
			}
			render(c, status, route, "profile", "마이페이지", gin.H{"User": user, "Form": form, "Error": message})
		}

		if c.PostForm("action") == "check-nickname" {
			form.Update(req.Nickname, req.PhoneNumber)
			svc.CheckProfileNickname(c.Request.Context(), form)
			show(http.StatusOK, "")
			return
		}

		photo, err := readProfilePhoto(c)
		if err != nil {
			render(c, http.StatusBadRequest, route, "profile", "마이페이지", gin.H{
				"User":  user,
				"Form":  form,
				"Error": userMessage(err, account.ErrPhotoType.Error()),
			})
			return
		}

		form.Update(req.Nickname, req.PhoneNumber)
		if err := svc.UpdateProfile(c.Request.Context(), sess, form, photo); err != nil {
			if handleUnauthorized(c, route, err) {
				return
			}
			msg := userMessage(err, account.MsgConnectionFailed)
			if _, rejected := api.Rejection(err); rejected {
				msg = account.MsgUpdateFailed + msg
			}
			show(http.StatusUnprocessableEntity, msg)
			return
		}
		sess.DropPage(profileDraftKey)
		flashRedirect(c, route, session.FlashInfo, account.MsgUpdateDone, "/mypage/userpage/info")
	}
}

func DeletePage() gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, "GET /mypage/userpage/delete", "delete", "회원탈퇴", nil)
	}
}

// DeleteAccount removes the account once the shopper confirmed; success
// logs them out and lands on the home page.
func DeleteAccount(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /mypage/userpage/delete"
		defer handlePanic(c, route)

		if c.PostForm("confirm") != "yes" {
			redirect(c, route, "/mypage/userpage/info")
			return
		}

		msg, err := svc.Delete(c.Request.Context(), middleware.SessionFrom(c))
		if err != nil {
			if handleUnauthorized(c, route, err) {
				return
			}
			fallback := account.MsgDeleteFailed
			if api.IsKind(err, api.KindNetwork) {
				fallback = account.MsgConnectionFailed
			}
			flashRedirect(c, route, session.FlashError, userMessage(err, fallback), "/mypage/userpage/info")
			return
		}
		flashRedirect(c, route, session.FlashInfo, msg, "/")
	}
}
