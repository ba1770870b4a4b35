package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicatlas/records-system/internal/core/domain"
	"github.com/civicatlas/records-system/internal/core/ports"
)

const (
	publicListLimit = 500
	listCacheTTL    = time.Minute
)

// ListingCache caches serialized listings. Misses and cache failures fall
// through to the repository.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// RecordService serves the public read views and the two gated record
// operations. Authorization happens in the middleware before any of these run.
type RecordService struct {
	repo  ports.RecordRepository
	cache ListingCache
	log   zerolog.Logger
}

func NewRecordService(repo ports.RecordRepository, cache ListingCache, log zerolog.Logger) *RecordService {
	return &RecordService{repo: repo, cache: cache, log: log}
}

// ListPublic returns published records, optionally filtered by category.
// Results are cached briefly since these endpoints take unauthenticated
// traffic.
func (s *RecordService) ListPublic(ctx context.Context, category string) ([]domain.Record, error) {
	key := "records:public:" + category

	if s.cache != nil {
		if raw, err := s.cache.Get(ctx, key); err == nil && raw != nil {
			var records []domain.Record
			if err := json.Unmarshal(raw, &records); err == nil {
				return records, nil
			}
		}
	}

	records, err := s.repo.List(ctx, category, publicListLimit)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if raw, err := json.Marshal(records); err == nil {
			if err := s.cache.Set(ctx, key, raw, listCacheTTL); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("listing cache write failed")
			}
		}
	}
	return records, nil
}

// MapPoints projects all published records onto the map view.
func (s *RecordService) MapPoints(ctx context.Context) ([]domain.MapPoint, error) {
	records, err := s.ListPublic(ctx, "")
	if err != nil {
		return nil, err
	}

	points := make([]domain.MapPoint, 0, len(records))
	for _, r := range records {
		points = append(points, domain.MapPoint{
			ID:       r.ID,
			Title:    r.Title,
			Category: r.Category,
			Location: r.Location,
		})
	}
	return points, nil
}

// Create stores a new record attributed to the authenticated caller.
func (s *RecordService) Create(ctx context.Context, identity domain.Identity, title, category string, location domain.Coordinates) (*domain.Record, error) {
	if title == "" || category == "" {
		return nil, domain.ErrValidation
	}

	record := &domain.Record{
		Title:     title,
		Category:  category,
		Location:  location,
		CreatedBy: identity.UserID,
		CreatedAt: time.Now().UTC(),
	}
	return s.repo.Create(ctx, record)
}

// Stats aggregates record counts per category.
func (s *RecordService) Stats(ctx context.Context) ([]domain.CategoryCount, error) {
	return s.repo.CountByCategory(ctx)
}
