package services

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/rewear/backend/internal/models"
)

// FlaggedListing is a stored listing with at least one image the moderator
// considers unsafe.
type FlaggedListing struct {
	ListingID string
	Images    []string
}

type AuditReport struct {
	Scanned int
	Images  int
	Errors  int
	Flagged []FlaggedListing
}

type listingAudit struct {
	scanned bool
	images  int
	errors  int
	unsafe  []string
}

// AuditListings runs the moderator over every image of every listing, checking
// up to workers listings at once. Moderator errors are counted and logged, and
// the image is skipped. Flagged listings keep their input order.
func AuditListings(ctx context.Context, listings []models.Listing, moderator ImageModerator, workers int, log *zap.Logger) (*AuditReport, error) {
	if workers < 1 {
		workers = 1
	}

	results := make([]listingAudit, len(listings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i := range listings {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			l := listings[i]
			res := &results[i]
			res.scanned = true

			for _, img := range l.Images {
				res.images++
				unsafe, err := moderator.IsUnsafe(gctx, img)
				if err != nil {
					if gctx.Err() != nil {
						return gctx.Err()
					}
					res.errors++
					log.Warn("audit: moderation error", zap.String("listing", l.ID), zap.String("image", img), zap.Error(err))
					continue
				}
				if unsafe {
					res.unsafe = append(res.unsafe, img)
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	report := &AuditReport{Flagged: make([]FlaggedListing, 0)}
	for i, res := range results {
		if !res.scanned {
			continue
		}
		report.Scanned++
		report.Images += res.images
		report.Errors += res.errors
		if len(res.unsafe) > 0 {
			log.Info("audit: listing flagged", zap.String("listing", listings[i].ID), zap.Strings("images", res.unsafe))
			report.Flagged = append(report.Flagged, FlaggedListing{ListingID: listings[i].ID, Images: res.unsafe})
		}
	}
	return report, err
}
