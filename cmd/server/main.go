package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rewear/backend/internal/config"
	"github.com/rewear/backend/internal/handlers"
	"github.com/rewear/backend/internal/logger"
	"github.com/rewear/backend/internal/models"
	"github.com/rewear/backend/internal/services"
	"github.com/rewear/backend/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// The server still starts without a database; listing routes then fail
	// with 500 and /test reports the problem.
	openCtx, cancel := context.WithTimeout(ctx, cfg.RequestTimeout)
	store, err := storage.Open(openCtx, storage.Options{
		Driver:       cfg.StorageDriver,
		DatabaseURL:  cfg.DatabaseURL,
		DatabaseName: cfg.DatabaseName,
		DataDir:      cfg.DataDir,
		Indexes:      map[string][]string{models.ListingCollection: {models.FieldCategory}},
	}, log)
	cancel()
	if err != nil {
		log.Error("storage unavailable, continuing without database",
			zap.String("driver", cfg.StorageDriver), zap.Error(err))
	}

	var moderator services.ImageModerator
	if cfg.ImageModeration {
		vm, err := services.NewVisionModerator(ctx, log)
		if err != nil {
			log.Fatal("failed to initialize image moderation", zap.Error(err))
		}
		moderator = vm
	}

	// Initialize services
	listingService := services.NewListingService(store, moderator, log)
	diagnosticsService := services.NewDiagnosticsService(store, cfg.StorageDriver, cfg.DatabaseURL != "", cfg.DatabaseName != "")

	// Initialize handlers
	listingHandler := handlers.NewListingHandler(listingService, cfg.RequestTimeout, cfg.MaxBodyBytes, log)
	diagnosticsHandler := handlers.NewDiagnosticsHandler(diagnosticsService, cfg.RequestTimeout)

	srv := &http.Server{
		Addr: cfg.ServerAddress,
		Handler: handlers.NewRouter(handlers.RouterConfig{
			AllowedOrigins:  cfg.AllowedOrigins,
			RateLimitPerMin: cfg.RateLimitPerMin,
			Logger:          log,
		}, listingHandler, diagnosticsHandler),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("API server starting", zap.String("addr", cfg.ServerAddress), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server failed to start", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	if store != nil {
		if err := store.Close(shutdownCtx); err != nil {
			log.Error("storage close", zap.Error(err))
		}
	}
}
