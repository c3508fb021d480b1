// Package server assembles the gin engine: middleware order, page routes,
// static files, health and metrics.
package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"storefront/internal/account"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/handlers"
	"storefront/internal/logger"
	"storefront/internal/middleware"
	"storefront/internal/session"
)

type Deps struct {
	Logger     *zap.Logger
	Sessions   *session.Manager
	Controller *session.Controller
	Catalog    *catalog.Service
	Account    *account.Service
	Checkout   *checkout.Service
	// Gatherer backs /metrics; nil leaves the route out.
	Gatherer prometheus.Gatherer
	// StaticDir is served under /public when set.
	StaticDir string
}

func NewRouter(d Deps) (*gin.Engine, error) {
	tmpl, err := handlers.Templates()
	if err != nil {
		return nil, err
	}

	r := gin.New()
	r.Use(logger.GinMiddleware(d.Logger), logger.Recovery(d.Logger))
	r.SetHTMLTemplate(tmpl)
	if d.StaticDir != "" {
		r.Static("/public", d.StaticDir)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	withSession := r.Group("/")
	withSession.Use(middleware.Sessions(d.Sessions))
	{
		withSession.POST("/login", handlers.Login(d.Controller))
		withSession.POST("/logout", handlers.Logout(d.Controller))
		withSession.GET("/logout", handlers.Logout(d.Controller))
		withSession.POST("/signup", handlers.Signup(d.Account))
		withSession.POST("/products/:code/liked", handlers.ToggleLike(d.Catalog))
		withSession.GET("/search", handlers.SearchRedirect())
	}

	pages := withSession.Group("/")
	pages.Use(middleware.Shell(d.Controller))
	{
		pages.GET("/", handlers.HomePage(d.Catalog))
		pages.GET("/login", handlers.LoginPage())
		pages.GET("/signup", handlers.SignupPage())
		pages.GET("/category/:slug", handlers.CategoryPage(d.Catalog))
		pages.GET("/category/:slug/products/:code", handlers.ProductPage(d.Catalog))
		pages.GET("/search/:q", handlers.SearchPage(d.Catalog))
		pages.GET("/order-success", handlers.OrderSuccessPage(d.Checkout))
	}

	mypage := pages.Group("/")
	mypage.Use(middleware.RequireLogin())
	{
		mypage.GET("/mypage/like", handlers.LikedPage(d.Catalog))
		mypage.GET("/mypage/userpage/like", handlers.LikedPage(d.Catalog))
		mypage.GET("/mypage/cart", handlers.CartPage(d.Checkout))
		mypage.GET("/payment", handlers.PaymentPage(d.Checkout))
		mypage.POST("/payment", handlers.Payment(d.Checkout))
		mypage.GET("/mypage/userpage", handlers.UserPageRedirect())
		mypage.GET("/mypage/userpage/info", handlers.ProfilePage())
		mypage.POST("/mypage/userpage/info", handlers.UpdateProfile(d.Account))
		mypage.GET("/mypage/userpage/delete", handlers.DeletePage())
		mypage.POST("/mypage/userpage/delete", handlers.DeleteAccount(d.Account))
		mypage.GET("/mypage/userpage/productadd", handlers.ProductAddPage())
		mypage.POST("/mypage/userpage/productadd", handlers.AddProduct(d.Account))
	}

	r.NoRoute(middleware.Sessions(d.Sessions), handlers.NotFound())
	return r, nil
}
