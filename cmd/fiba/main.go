package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fiba/internal/api"
	"fiba/internal/config"
	applog "fiba/internal/log"
	"fiba/internal/session"
	"fiba/internal/storage"
	"fiba/internal/web"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	logger := applog.New(applog.DefaultConfig())
	applog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", applog.FieldError, err.Error())
		os.Exit(1)
	}

	settings, err := storage.NewSettingsStore(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to open settings store", applog.FieldError, err.Error())
		os.Exit(1)
	}
	defer settings.Close()

	var store *session.Store
	client := api.NewClient(cfg.APIBaseURL, api.Options{
		Tokens:               settings,
		Timeout:              cfg.RequestTimeout,
		DegradeToMockOnError: cfg.DegradeToMockOnError,
		OnUnauthorized: func() {
			if store != nil {
				store.Invalidate()
			}
		},
		Logger: logger.WithComponent(applog.ComponentAPI),
	})
	store = session.New(client, logger)

	// Warm the session before serving; in degraded mode this always succeeds.
	loadCtx, loadCancel := context.WithTimeout(context.Background(), 2*cfg.RequestTimeout)
	if err := store.Load(loadCtx); err != nil {
		logger.Warn("Initial load failed, continuing with empty session", applog.FieldError, err.Error())
	}
	loadCancel()

	srv, err := web.NewServer(web.Config{
		Addr:         ":" + cfg.Port,
		Store:        store,
		Client:       client,
		Logger:       logger,
		CacheTTL:     cfg.CacheTTL,
		CacheMaxSize: cfg.CacheMaxSize,
	})
	if err != nil {
		logger.Error("Failed to build server", applog.FieldError, err.Error())
		os.Exit(1)
	}

	srv.ReadTimeout = 10 * time.Second
	srv.WriteTimeout = 10 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16 // 64KB

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", applog.FieldError, err.Error())
		}
		store.Close()
		cancel()
	}()

	logger.Info("Starting fiba server",
		"port", cfg.Port,
		"api_url", cfg.APIBaseURL,
		"degraded_mode", cfg.DegradeToMockOnError)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", applog.FieldError, err.Error(), "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
