package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/rewear/backend/internal/filter"
	"github.com/rewear/backend/internal/models"
	"github.com/rewear/backend/internal/storage"
)

var (
	ErrStoreUnavailable = errors.New("database not available")
	ErrImageRejected    = errors.New("image rejected: violates community guidelines")
)

// ImageModerator decides whether an image is unsafe to publish.
type ImageModerator interface {
	IsUnsafe(ctx context.Context, imageURL string) (bool, error)
}

type ListingService struct {
	store     storage.Store
	moderator ImageModerator
	log       *zap.Logger
	now       func() time.Time
}

// NewListingService wires a listing service. store may be nil when the
// database could not be reached at startup; moderator may be nil to skip
// image checks.
func NewListingService(store storage.Store, moderator ImageModerator, log *zap.Logger) *ListingService {
	return &ListingService{
		store:     store,
		moderator: moderator,
		log:       log,
		now:       time.Now,
	}
}

// Create stores a validated listing and returns its identifier.
func (s *ListingService) Create(ctx context.Context, req *models.CreateListingRequest) (string, error) {
	if s.store == nil {
		return "", ErrStoreUnavailable
	}

	if s.moderator != nil {
		for _, img := range req.Images {
			unsafe, err := s.moderator.IsUnsafe(ctx, img)
			if err != nil {
				return "", fmt.Errorf("moderate %s: %w", img, err)
			}
			if unsafe {
				s.log.Info("listing image rejected", zap.String("image", img))
				return "", ErrImageRejected
			}
		}
	}

	id, err := s.store.CreateDocument(ctx, models.ListingCollection, storage.Document(req.ToDocument(s.now())))
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// List returns listings matching q in storage order. Category is an exact
// match; Q is a case-insensitive substring over title, description and
// brand. Both together must hold at once.
func (s *ListingService) List(ctx context.Context, q models.ListingQuery) ([]models.Listing, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}

	f := filter.NewBuilder().
		WhereEquals(models.FieldCategory, q.Category).
		WhereSearch(q.Q, models.SearchFields...).
		Build()

	recs, err := s.store.GetDocuments(ctx, models.ListingCollection, f, 0)
	if err != nil {
		return nil, err
	}

	listings := make([]models.Listing, 0, len(recs))
	for _, rec := range recs {
		listings = append(listings, normalizeListing(rec))
	}
	return listings, nil
}
