package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	vision "google.golang.org/api/vision/v1"
)

type SafeSearchResult struct {
	Adult    string
	Violence string
	Racy     string
}

func isUnsafeLikelyOrHigher(l string) bool {
	return l == "LIKELY" || l == "VERY_LIKELY"
}

func (r *SafeSearchResult) IsUnsafe() bool {
	return isUnsafeLikelyOrHigher(r.Adult) || isUnsafeLikelyOrHigher(r.Violence) || isUnsafeLikelyOrHigher(r.Racy)
}

// VisionModerator runs Cloud Vision SAFE_SEARCH_DETECTION against publicly
// reachable image URLs.
type VisionModerator struct {
	svc *vision.Service
	log *zap.Logger
}

// NewVisionModerator creates the Vision client once. Credentials come from
// Application Default Credentials.
func NewVisionModerator(ctx context.Context, log *zap.Logger) (*VisionModerator, error) {
	svc, err := vision.NewService(ctx, option.WithScopes(vision.CloudPlatformScope))
	if err != nil {
		return nil, fmt.Errorf("moderation: vision client: %w", err)
	}
	return &VisionModerator{svc: svc, log: log}, nil
}

func (m *VisionModerator) Detect(ctx context.Context, imageURL string) (*SafeSearchResult, error) {
	req := &vision.AnnotateImageRequest{
		Image: &vision.Image{
			Source: &vision.ImageSource{ImageUri: imageURL},
		},
		Features: []*vision.Feature{
			{Type: "SAFE_SEARCH_DETECTION"},
		},
	}

	resp, err := m.svc.Images.Annotate(&vision.BatchAnnotateImagesRequest{
		Requests: []*vision.AnnotateImageRequest{req},
	}).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	if len(resp.Responses) == 0 {
		return &SafeSearchResult{}, nil
	}
	r := resp.Responses[0]
	if r.Error != nil {
		return nil, fmt.Errorf("vision: %s", r.Error.Message)
	}
	ss := r.SafeSearchAnnotation
	if ss == nil {
		return &SafeSearchResult{}, nil
	}

	return &SafeSearchResult{
		Adult:    ss.Adult,
		Violence: ss.Violence,
		Racy:     ss.Racy,
	}, nil
}

func (m *VisionModerator) IsUnsafe(ctx context.Context, imageURL string) (bool, error) {
	ss, err := m.Detect(ctx, imageURL)
	if err != nil {
		m.log.Warn("SafeSearch failed", zap.String("image", imageURL), zap.Error(err))
		return false, err
	}
	m.log.Debug("SafeSearch result",
		zap.String("image", imageURL),
		zap.String("adult", ss.Adult),
		zap.String("violence", ss.Violence),
		zap.String("racy", ss.Racy),
	)
	return ss.IsUnsafe(), nil
}
