package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"storefront/internal/account"
	"storefront/internal/api"
	"storefront/internal/catalog"
	"storefront/internal/checkout"
	"storefront/internal/config"
	"storefront/internal/database"
	"storefront/internal/logger"
	"storefront/internal/server"
	"storefront/internal/session"
)

func main() {
	config.Load()
	cfg := config.AppEnv

	logg := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	defer func() { _ = logg.Sync() }()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.SessionSecret == "" {
		if cfg.IsProduction() {
			logg.Fatal("SESSION_SECRET is required in production")
		}
		logg.Warn("SESSION_SECRET not set, using an insecure development secret")
		cfg.SessionSecret = "storefront-dev-secret"
	}

	store, closeStore, err := openSessionStore(cfg, logg)
	if err != nil {
		logg.Fatal("session store unavailable", zap.String("store", cfg.SessionStore), zap.Error(err))
	}
	defer closeStore()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	client, err := api.New(api.Options{
		BaseURL: cfg.APIBaseURL,
		Timeout: cfg.APITimeout,
		Metrics: api.NewMetrics(reg),
		Logger:  logg,
	})
	if err != nil {
		logg.Fatal("invalid API configuration", zap.Error(err))
	}

	ctrl := session.NewController(client, logg.Named("session"))
	router, err := server.NewRouter(server.Deps{
		Logger: logg,
		Sessions: session.NewManager(session.ManagerOptions{
			Store:      store,
			Secret:     cfg.SessionSecret,
			TTL:        cfg.SessionTTL,
			CookieName: cfg.SessionCookie,
			Secure:     cfg.SessionCookieSecure,
			Logger:     logg.Named("session"),
		}),
		Controller: ctrl,
		Catalog:    catalog.NewService(client, ctrl, logg.Named("catalog")),
		Account:    account.NewService(client, ctrl, logg.Named("account")),
		Checkout:   checkout.NewService(client, ctrl, logg.Named("checkout")),
		Gatherer:   reg,
		StaticDir:  "./public",
	})
	if err != nil {
		logg.Fatal("failed to build router", zap.Error(err))
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logg.Info("storefront listening", zap.String("addr", srv.Addr), zap.String("api", cfg.APIBaseURL), zap.String("sessionStore", cfg.SessionStore))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Fatal("server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("shutdown failed", zap.Error(err))
	}
	logg.Info("storefront stopped")
}

// openSessionStore picks the session backend named by SESSION_STORE.
func openSessionStore(cfg config.Config, logg *zap.Logger) (session.Store, func(), error) {
	switch cfg.SessionStore {
	case "", "memory":
		return session.NewMemoryStore(), func() {}, nil

	case "redis":
		if cfg.RedisURL == "" {
			return nil, nil, errors.New("REDIS_URL is required for the redis session store")
		}
		store, err := session.NewRedisStore(context.Background(), cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		logg.Info("Redis connected for sessions")
		return store, func() { _ = store.Close() }, nil

	case "mongo":
		if cfg.MongoURI == "" {
			return nil, nil, errors.New("MONGO_URI is required for the mongo session store")
		}
		client, err := database.Connect(cfg.MongoURI)
		if err != nil {
			return nil, nil, err
		}
		db := client.Database(cfg.DBName)
		logg.Info("MongoDB connected", zap.String("db", db.Name()))

		if err := database.EnsureSessionIndexes(db, session.SessionsCollection, logg); err != nil {
			logg.Warn("session index warning", zap.Error(err))
		}
		closeFn := func() { _ = client.Disconnect(context.Background()) }
		return session.NewMongoStore(db.Collection(session.SessionsCollection)), closeFn, nil
	}
	return nil, nil, fmt.Errorf("unknown SESSION_STORE %q", cfg.SessionStore)
}
