// Command moderation-worker audits stored listings: it runs Cloud Vision
// SafeSearch over every listing image and logs the listings that carry
// unsafe images.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/rewear/backend/internal/config"
	"github.com/rewear/backend/internal/logger"
	"github.com/rewear/backend/internal/models"
	"github.com/rewear/backend/internal/services"
	"github.com/rewear/backend/internal/storage"
)

func main() {
	var (
		category   = flag.String("category", "", "Only audit listings in this category")
		query      = flag.String("q", "", "Only audit listings matching this text")
		timeout    = flag.Duration("timeout", 10*time.Minute, "Overall audit timeout")
		workers    = flag.Int("concurrency", 4, "Listings checked in parallel")
		failOnFlag = flag.Bool("fail-on-flag", false, "Exit with status 1 when any listing is flagged")
	)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	log, err := logger.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(2)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	store, err := storage.Open(ctx, storage.Options{
		Driver:       cfg.StorageDriver,
		DatabaseURL:  cfg.DatabaseURL,
		DatabaseName: cfg.DatabaseName,
		DataDir:      cfg.DataDir,
	}, log)
	if err != nil {
		log.Fatal("open storage", zap.Error(err))
	}
	defer store.Close(context.Background())

	moderator, err := services.NewVisionModerator(ctx, log)
	if err != nil {
		log.Fatal("init moderation", zap.Error(err))
	}

	listings, err := services.NewListingService(store, nil, log).List(ctx, models.ListingQuery{
		Category: category,
		Q:        query,
	})
	if err != nil {
		log.Fatal("list listings", zap.Error(err))
	}

	report, err := services.AuditListings(ctx, listings, moderator, *workers, log)
	if err != nil {
		log.Error("audit interrupted", zap.Error(err))
	}
	log.Info("audit finished",
		zap.Int("scanned", report.Scanned),
		zap.Int("images", report.Images),
		zap.Int("errors", report.Errors),
		zap.Int("flagged", len(report.Flagged)),
	)

	if *failOnFlag && len(report.Flagged) > 0 {
		log.Sync()
		os.Exit(1)
	}
}
