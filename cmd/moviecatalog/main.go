package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/mantonx/moviecatalog/internal/config"
	"github.com/mantonx/moviecatalog/internal/database"
	"github.com/mantonx/moviecatalog/internal/logger"
	"github.com/mantonx/moviecatalog/internal/modules/catalogmodule"
	"github.com/mantonx/moviecatalog/internal/modules/modulemanager"
	"github.com/mantonx/moviecatalog/internal/server"
	"github.com/mantonx/moviecatalog/internal/storage"
)

const shutdownTimeout = 10 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("CATALOG_CONFIG_PATH"), "path to a YAML or JSON config file")
	flag.Parse()

	if err := config.LoadDotEnv(".env", ".env.local"); err != nil {
		logger.Warn("Failed to load .env: %v", err)
	}

	if err := config.Load(*configPath); err != nil {
		logger.Error("Failed to load configuration: %v", err)
		os.Exit(1)
	}
	cfg := config.Get()

	logger.Configure(logger.Options{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	config.AddWatcher(func(oldCfg, newCfg *config.Config) {
		if oldCfg.Logging.Level != newCfg.Logging.Level {
			logger.SetLevel(newCfg.Logging.Level)
			logger.Info("Log level changed to %s", newCfg.Logging.Level)
		}
	})

	if cfg.Server.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if *configPath != "" {
		go func() {
			if err := config.Watch(ctx); err != nil {
				logger.Warn("Config watcher stopped: %v", err)
			}
		}()
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		logger.Error("Failed to initialize database: %v", err)
		os.Exit(1)
	}
	defer database.Close()

	store, err := storage.New(ctx, cfg.Media)
	if err != nil {
		logger.Error("Failed to initialize media store: %v", err)
		os.Exit(1)
	}

	modulemanager.Provide(catalogmodule.ServiceStorage, store)
	modulemanager.Provide(catalogmodule.ServiceConfig, cfg)
	if err := modulemanager.LoadAll(db); err != nil {
		logger.Error("Failed to load modules: %v", err)
		os.Exit(1)
	}

	srv := server.NewHTTPServer(cfg.Server, server.SetupRouter(cfg, store))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting movie catalog on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("HTTP server failed: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("Shutting down gracefully...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error: %v", err)
	}
	if err := modulemanager.ShutdownAll(shutdownCtx); err != nil {
		logger.Error("Module shutdown error: %v", err)
	}
	logger.Info("Server shutdown complete")
}
