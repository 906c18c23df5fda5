package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"shopdesk/internal/config"
	"shopdesk/internal/handlers"
	"shopdesk/internal/middleware"
	"shopdesk/internal/observability"
	"shopdesk/internal/server"
	"shopdesk/internal/services"
	"shopdesk/internal/upstream"
)

const warmupTimeout = 30 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"upstream", cfg.Upstream.BaseURL,
	)

	client := upstream.NewClient(cfg.Upstream.BaseURL, cfg.Upstream.Timeout, logger)

	dashboard := services.NewDashboard(client, observability.ForComponent(logger, "dashboard"))
	inventory := services.NewInventory(client, observability.ForComponent(logger, "inventory"))
	orders := services.NewOrders(client, observability.ForComponent(logger, "orders"))
	analytics := services.NewAnalytics(client, observability.ForComponent(logger, "analytics"))

	// Best-effort warmup; an unreachable upstream leaves the views on
	// empty state until their first refresh succeeds.
	ctx, cancel := context.WithTimeout(context.Background(), warmupTimeout)
	if err := dashboard.Refresh(ctx); err != nil {
		logger.Warn("dashboard warmup failed", "error", err)
	}
	if err := inventory.Refresh(ctx); err != nil {
		logger.Warn("inventory warmup failed", "error", err)
	}
	cancel()

	api := handlers.NewAPIHandlers(dashboard, inventory, orders, analytics, logger)
	sse := handlers.NewSSEHandlers(dashboard, inventory, orders, analytics, logger)

	srv := server.NewServer(api, sse, logger)

	rateLimiter := middleware.NewRateLimiter(cfg.Security)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
	)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      middlewareChain(srv),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		logger.Info("shutting down view services")
		return nil
	})

	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
