package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront/internal/catalog"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/models"
	"storefront/internal/resource"
	"storefront/internal/session"
)

// CategoryPage lists one category. With keep=1 the listing the session
// already holds is shown again instead of being refetched, which is how a
// like toggle lands back on the page.
func CategoryPage(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /category/:slug"
		defer handlePanic(c, route)

		cat, ok := catalog.BySlug(c.Param("slug"))
		if !ok {
			respondWithError(c, http.StatusNotFound, route, catalog.EmptyMessage)
			return
		}
		pageNum, limit, err := parsePaginationParams(c.Query("page"), c.Query("limit"))
		if err != nil {
			respondWithError(c, http.StatusBadRequest, route, err.Error())
			return
		}

		sess := middleware.SessionFrom(c)
		var listing catalog.Listing
		if view, ok := svc.Current(sess, cat); ok && c.Query("keep") == "1" {
			listing = catalog.Listing{State: resource.Ready, Data: view.Products}
			if len(view.Products) == 0 {
				listing = catalog.Listing{State: resource.Empty, Message: catalog.EmptyMessage}
			}
		} else {
			listing = svc.Load(c.Request.Context(), sess, cat)
		}
		if listing.State == resource.Disposed {
			return
		}

		var pages []int
		if listing.OK() {
			listing.Data, pages = paginate(listing.Data, pageNum, limit)
		}
		render(c, http.StatusOK, route, "category", cat.Title, gin.H{
			"Heading": cat.Title,
			"Listing": listing,
			"Page":    pageNum,
			"Pages":   pages,
		})
	}
}

func ProductPage(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /category/:slug/products/:code"
		defer handlePanic(c, route)

		cat, ok := catalog.BySlug(c.Param("slug"))
		if !ok {
			respondWithError(c, http.StatusNotFound, route, catalog.EmptyMessage)
			return
		}

		product, err := svc.Detail(c.Request.Context(), middleware.SessionFrom(c), cat, models.Code(c.Param("code")))
		switch {
		case err == nil:
		case errors.Is(err, catalog.ErrProductNotFound):
			respondWithError(c, http.StatusNotFound, route, catalog.EmptyMessage)
			return
		case resource.IsDisposed(err):
			return
		default:
			respondWithError(c, http.StatusBadGateway, route, catalog.ConnectionMessage)
			return
		}
		render(c, http.StatusOK, route, "product", product.Name, gin.H{"Product": product, "Category": cat})
	}
}

// ToggleLike answers JSON to fetch requests and redirects plain form posts
// back to the listing they came from.
func ToggleLike(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products/:code/liked"
		defer handlePanic(c, route)

		code := models.Code(strings.TrimSpace(c.Param("code")))
		out := svc.ToggleLike(c.Request.Context(), middleware.SessionFrom(c), code)
		wantsJSON := strings.Contains(c.GetHeader("Accept"), "application/json")

		switch out.Status {
		case catalog.LikeLoginRequired:
			if wantsJSON {
				commitJSON(c, route, http.StatusUnauthorized, gin.H{"loginRequired": true, "message": out.Message})
				return
			}
			flashRedirect(c, route, session.FlashError, out.Message, middleware.LoginPath)
		case catalog.LikeFailed:
			if wantsJSON {
				commitJSON(c, route, http.StatusBadGateway, gin.H{"message": out.Message})
				return
			}
			flashRedirect(c, route, session.FlashError, out.Message, backTo(c))
		default:
			logger.FromContext(c).Info("like toggled", zap.String("pcode", code.String()), zap.Bool("liked", out.Liked))
			if wantsJSON {
				commitJSON(c, route, http.StatusOK, gin.H{"pcode": code, "likedStatus": out.Liked, "message": out.Message})
				return
			}
			redirect(c, route, backTo(c))
		}
	}
}

// backTo is the same-site page a form post came from, with keep=1 so the
// listing is not refetched.
func backTo(c *gin.Context) string {
	ref, err := url.Parse(c.GetHeader("Referer"))
	if err != nil || ref.Path == "" || (ref.Host != "" && ref.Host != c.Request.Host) {
		return "/"
	}
	// "//host" and "/\host" would leave the site
	path := "/" + strings.TrimLeft(ref.Path, "/\\")
	q := ref.Query()
	if strings.HasPrefix(path, "/category/") {
		q.Set("keep", "1")
	}
	target := url.URL{Path: path, RawQuery: q.Encode()}
	return target.String()
}

func commitJSON(c *gin.Context, route string, status int, body gin.H) {
	if err := middleware.CommitSession(c); err != nil {
		logger.FromContext(c).Error("session commit failed", zap.String("route", route), zap.Error(err))
	}
	c.JSON(status, body)
}

// SearchRedirect turns the navigation search box into /search/:q.
func SearchRedirect() gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /search"
		q := strings.TrimSpace(c.Query("q"))
		if q == "" {
			flashRedirect(c, route, session.FlashError, catalog.EmptyQueryMessage, "/")
			return
		}
		redirect(c, route, "/search/"+url.PathEscape(q))
	}
}

func SearchPage(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /search/:q"
		defer handlePanic(c, route)

		q := c.Param("q")
		listing := svc.Search(c.Request.Context(), middleware.SessionFrom(c), q)
		if listing.State == resource.Disposed {
			return
		}
		render(c, http.StatusOK, route, "category", q, gin.H{
			"Heading": "'" + q + "' 검색 결과",
			"Query":   q,
			"Listing": listing,
		})
	}
}

// LikedPage is the shopper's wishlist.
func LikedPage(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /mypage/like"
		defer handlePanic(c, route)

		listing := svc.Liked(c.Request.Context(), middleware.SessionFrom(c))
		if listing.State == resource.Disposed {
			return
		}
		if handleUnauthorized(c, route, listing.Err) {
			return
		}
		render(c, http.StatusOK, route, "category", "찜목록", gin.H{
			"Heading": "찜목록",
			"Listing": listing,
		})
	}
}
