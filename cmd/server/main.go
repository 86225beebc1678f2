package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"cwms_shell/internal/config"
	"cwms_shell/internal/deployment"
	"cwms_shell/internal/handlers"
	"cwms_shell/internal/logging"
	"cwms_shell/internal/middleware"
	"cwms_shell/internal/services"
)

func main() {
	cfgPath := os.Getenv("SHELL_CONFIG")
	if cfgPath == "" {
		cfgPath = "shell.yaml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	d, err := deployment.Current()
	if err != nil {
		logger.Fatal("Unknown deployment", zap.Error(err))
	}
	logger.Info("Serving deployment", zap.String("deployment", d.Name), zap.String("base_path", d.BasePath))

	// Visit accounting is optional
	var visits handlers.VisitRecorder
	if cfg.RedisURL != "" {
		cache, err := services.NewRedisCache(cfg.RedisURL, logger)
		if err != nil {
			logger.Warn("Redis unavailable, visit accounting disabled", zap.Error(err))
		} else {
			defer cache.Close()
			visits = services.NewVisitCounter(cache)
		}
	} else {
		logger.Info("REDIS_URL not set, visit accounting disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics, err := middleware.NewMetrics(reg)
	if err != nil {
		logger.Fatal("Failed to register metrics", zap.Error(err))
	}

	gate := cfg.LoginGate()

	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = middleware.CustomErrorHandler(d, gate, cfg.TrustProxy, logger)

	e.Use(echomw.Recover())
	e.Use(middleware.RequestLogger(logger))
	e.Use(middleware.SecurityHeaders())
	e.Use(metrics.Middleware())

	e.Static(d.Path("static"), cfg.StaticDir)
	e.GET("/metrics", metrics.Handler())

	pageHandler := handlers.NewPageHandler(d, gate, visits, cfg.TrustProxy, logger)
	docsHandler := handlers.NewDocsHandler(d)
	handlers.Register(e, d, pageHandler, docsHandler)

	go func() {
		logger.Info("Server starting", zap.String("port", cfg.Port))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server stopped", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Graceful shutdown failed", zap.Error(err))
	}
}
