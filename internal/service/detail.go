package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/mmcdole/reel/internal/domain"
	"github.com/patrickmn/go-cache"
	"github.com/sourcegraph/conc/pool"
)

const (
	detailCacheTTL     = 30 * time.Minute
	detailCacheCleanup = 10 * time.Minute
)

// DetailExtras holds the secondary sections of a detail view. Each section
// fails independently.
type DetailExtras struct {
	Reviews    []domain.Review
	ReviewsErr error
	Credits    []domain.CastMember
	CreditsErr error
}

// DetailService loads single titles and records successful views.
// Details are cached for the session only.
type DetailService struct {
	catalog domain.CatalogRepository
	history *HistoryService
	cache   *cache.Cache
	logger  *slog.Logger
}

// NewDetailService creates a new detail service. history may be nil.
func NewDetailService(catalog domain.CatalogRepository, history *HistoryService, logger *slog.Logger) *DetailService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DetailService{
		catalog: catalog,
		history: history,
		cache:   cache.New(detailCacheTTL, detailCacheCleanup),
		logger:  logger,
	}
}

// Load returns the detail for key and records it as viewed.
// A history write failure is logged, not returned.
func (s *DetailService) Load(ctx context.Context, key domain.MediaKey) (*domain.MediaDetail, error) {
	cacheKey := key.String()

	var detail *domain.MediaDetail
	if cached, ok := s.cache.Get(cacheKey); ok {
		s.logger.Debug("cache hit", "key", cacheKey)
		detail = cached.(*domain.MediaDetail)
	} else {
		d, err := s.catalog.GetDetail(ctx, key.Kind, key.ID)
		if err != nil {
			s.logger.Error("failed to load detail", "key", cacheKey, "error", err)
			return nil, err
		}
		s.cache.SetDefault(cacheKey, d)
		detail = d
	}

	if s.history != nil {
		if err := s.history.RecordViewed(detail.MediaSummary); err != nil {
			s.logger.Warn("failed to record view", "key", cacheKey, "error", err)
		}
	}

	out := *detail
	return &out, nil
}

// Extras fetches reviews and credits concurrently
func (s *DetailService) Extras(ctx context.Context, key domain.MediaKey) DetailExtras {
	var extras DetailExtras

	p := pool.New().WithMaxGoroutines(2)
	p.Go(func() {
		extras.Reviews, extras.ReviewsErr = s.catalog.GetReviews(ctx, key.Kind, key.ID)
	})
	p.Go(func() {
		extras.Credits, extras.CreditsErr = s.catalog.GetCredits(ctx, key.Kind, key.ID)
	})
	p.Wait()

	if extras.ReviewsErr != nil {
		s.logger.Warn("failed to load reviews", "key", key.String(), "error", extras.ReviewsErr)
	}
	if extras.CreditsErr != nil {
		s.logger.Warn("failed to load credits", "key", key.String(), "error", extras.CreditsErr)
	}
	return extras
}

// Invalidate drops a cached detail so the next Load refetches it
func (s *DetailService) Invalidate(key domain.MediaKey) {
	s.cache.Delete(key.String())
}
