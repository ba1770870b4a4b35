package ports

import (
	"context"

	"github.com/civicatlas/records-system/internal/core/domain"
)

type RecordService interface {
	ListPublic(ctx context.Context, category string) ([]domain.Record, error)
	MapPoints(ctx context.Context) ([]domain.MapPoint, error)
	Create(ctx context.Context, identity domain.Identity, title, category string, location domain.Coordinates) (*domain.Record, error)
	Stats(ctx context.Context) ([]domain.CategoryCount, error)
}
