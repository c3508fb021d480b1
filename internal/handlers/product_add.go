package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/account"
	"storefront/internal/api"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

const productAddPath = "/mypage/userpage/productadd"

func ProductAddPage() gin.HandlerFunc {
	return func(c *gin.Context) {
		render(c, http.StatusOK, "GET "+productAddPath, "product_add", "상품 등록", gin.H{
			"Form":       &account.ProductForm{},
			"Categories": account.ProductCategories,
		})
	}
}

// AddProduct registers a product listed by the shopper: a main photo plus
// any number of detail images under commentphoto.
func AddProduct(svc *account.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST " + productAddPath
		defer handlePanic(c, route)

		if err := parseMultipartForm(c); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}
		var form account.ProductForm
		if err := c.ShouldBind(&form); err != nil {
			respondWithError(c, http.StatusBadRequest, route, "invalid body")
			return
		}
		show := func(status int, message string) {
			render(c, status, route, "product_add", "상품 등록", gin.H{
				"Form":       &form,
				"Categories": account.ProductCategories,
				"Error":      message,
			})
		}

		photo, err := readPhoto(c, "photo")
		if err != nil {
			show(http.StatusBadRequest, userMessage(err, account.ErrPhotoType.Error()))
			return
		}
		details, err := readPhotos(c, "commentphoto")
		if err != nil {
			show(http.StatusBadRequest, userMessage(err, account.ErrPhotoType.Error()))
			return
		}

		msg, err := svc.RegisterProduct(c.Request.Context(), middleware.SessionFrom(c), &form, photo, details)
		if err != nil {
			if handleUnauthorized(c, route, err) {
				return
			}
			fallback := account.MsgProductFailed
			if api.IsKind(err, api.KindNetwork) {
				fallback = account.MsgConnectionFailed
			}
			show(http.StatusUnprocessableEntity, userMessage(err, fallback))
			return
		}
		flashRedirect(c, route, session.FlashInfo, msg, "/category/"+form.Category)
	}
}
