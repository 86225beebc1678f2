package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"cwms_shell/internal/config"
	"cwms_shell/internal/logging"
	"cwms_shell/internal/services"
	"cwms_shell/internal/tasks"
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

	if cfg.DatabaseURL == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	db, err := services.InitDB(cfg.DatabaseURL, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	if err := services.AutoMigrate(db, logger); err != nil {
		logger.Fatal("Failed to run database migrations", zap.Error(err))
	}

	env := tasks.Env{
		DB:     db,
		Store:  services.NewPageVisitStore(db),
		Logger: logger,
	}

	if cfg.RedisURL != "" {
		cache, err := services.NewRedisCache(cfg.RedisURL, logger)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer cache.Close()
		env.Visits = services.NewVisitCounter(cache)

		flush, err := tasks.FlushVisitsTask.CreateTask(time.Now())
		if err != nil {
			logger.Fatal("Failed to build flush task", zap.Error(err))
		}
		stored, err := tasks.EnsureTask(db, flush)
		if err != nil {
			logger.Fatal("Failed to schedule flush task", zap.Error(err))
		}
		logger.Info("Visit flush scheduled", zap.Uint("task_id", stored.ID), zap.Time("due", stored.Due))
	} else {
		logger.Warn("REDIS_URL not set, visit flushing disabled")
	}

	tasks.DefineTasks(tasks.GlobalRegistry)

	runner := &tasks.Runner{
		DB:       db,
		Registry: tasks.GlobalRegistry,
		Env:      env,
		Logger:   logger,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan
		logger.Info("Shutting down worker")
		cancel()
	}()

	ticker := time.NewTicker(cfg.WorkerInterval)
	defer ticker.Stop()

	logger.Info("Worker started", zap.Duration("interval", cfg.WorkerInterval), zap.Strings("tasks", tasks.GlobalRegistry.Names()))

	run := func() {
		if err := runner.RunPending(ctx); err != nil && ctx.Err() == nil {
			logger.Error("Task run failed", zap.Error(err))
		}
	}

	run()
	for {
		select {
		case <-ticker.C:
			run()
		case <-ctx.Done():
			return
		}
	}
}
