package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"storefront/internal/catalog"
	"storefront/internal/middleware"
)

// HomePage shows one shelf per category.
func HomePage(svc *catalog.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /"
		defer handlePanic(c, route)

		shelves := svc.Home(c.Request.Context(), middleware.SessionFrom(c))
		if c.Request.Context().Err() != nil {
			return
		}
		render(c, http.StatusOK, route, "home", "", gin.H{"Shelves": shelves})
	}
}

// NotFound renders the 404 page with the shopper's navigation.
func NotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		respondWithError(c, http.StatusNotFound, "NoRoute", "페이지를 찾을 수 없습니다.")
	}
}
