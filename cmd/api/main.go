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

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wolfman30/connection-card/cmd/mainconfig"
	"github.com/wolfman30/connection-card/internal/api/router"
	"github.com/wolfman30/connection-card/internal/app/bootstrap"
	"github.com/wolfman30/connection-card/internal/cards"
	appconfig "github.com/wolfman30/connection-card/internal/config"
	httpmiddleware "github.com/wolfman30/connection-card/internal/http/middleware"
	"github.com/wolfman30/connection-card/pkg/logging"
)

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting connection card API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()
	srv, cleanup, err := buildServer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to start", "error", err)
		os.Exit(1)
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	// Let in-flight generations finish before closing the stores they write to.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GenerationTimeout+10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := cleanup(); err != nil {
		logger.Error("failed to close connections", "error", err)
	}
	logger.Info("server stopped")
}

// buildServer wires the card runtime behind the HTTP router. The returned
// cleanup closes the limiter and every backing connection.
func buildServer(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) (*http.Server, func() error, error) {
	var awsCfg *aws.Config
	if bootstrap.NeedsAWS(cfg) {
		loaded, err := mainconfig.LoadAWSConfig(ctx, cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("load AWS config: %w", err)
		}
		awsCfg = &loaded
	}

	metricsHandler, reg := setupMetrics()
	rt, err := bootstrap.BuildRuntime(ctx, cfg, awsCfg, reg, logger)
	if err != nil {
		return nil, nil, err
	}

	limiter := httpmiddleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst)
	handler := router.New(&router.Config{
		Logger:             logger,
		CardsHandler:       cards.NewHandler(rt.Cards, rt.Church, logger),
		AdminAuthSecret:    cfg.AdminJWTSecret,
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		RateLimiter:        limiter,
		HealthChecks:       healthChecks(rt),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.GenerationTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}
	cleanup := func() error {
		limiter.Close()
		return rt.Close()
	}
	return srv, cleanup, nil
}

// setupMetrics builds a private registry with runtime collectors and returns
// the handler that serves it.
func setupMetrics() (http.Handler, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}), reg
}

func healthChecks(rt *bootstrap.Runtime) map[string]router.HealthCheck {
	checks := map[string]router.HealthCheck{}
	if rt.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return rt.Redis.Ping(ctx).Err() }
	}
	if rt.Pool != nil {
		checks["postgres"] = rt.Pool.Ping
	}
	return checks
}
