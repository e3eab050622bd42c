package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/paysharehq/payshare/internal/auth"
	"github.com/paysharehq/payshare/internal/config"
	"github.com/paysharehq/payshare/internal/middleware"
	"github.com/paysharehq/payshare/internal/notify"
	"github.com/paysharehq/payshare/internal/server"
	"github.com/paysharehq/payshare/internal/service"
	"github.com/paysharehq/payshare/internal/storage/sqlite"
	"github.com/paysharehq/payshare/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.LogLevel)

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	slog.Info("Storage initialized", "database", cfg.DBPath)

	var dispatcher notify.Dispatcher = notify.Discard{}
	if cfg.FCMEndpoint != "" && cfg.FCMServerKey != "" {
		dispatcher = notify.NewFCM(cfg.FCMEndpoint, cfg.FCMServerKey)
		slog.Info("Push notifications enabled", "endpoint", cfg.FCMEndpoint)
	} else {
		slog.Warn("Push notifications disabled, no FCM endpoint configured")
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL)

	srv := server.New(
		service.NewUserService(store, jwtManager),
		service.NewFriendService(store),
		service.NewGroupService(store, dispatcher),
		jwtManager,
	)

	root := chi.NewRouter()
	root.Use(middleware.Logging, middleware.Metrics, middleware.CORS)
	root.Handle("/metrics", promhttp.Handler())
	root.Mount("/", srv.Router())

	slog.Info("Server starting", "address", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, root); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
