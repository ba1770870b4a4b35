package ports

import (
	"context"

	"github.com/civicatlas/records-system/internal/core/domain"
)

// RecordRepository covers the read paths the public views need plus the
// single staff-gated write. Everything else about records lives outside the
// auth core.
type RecordRepository interface {
	List(ctx context.Context, category string, limit int64) ([]domain.Record, error)
	Create(ctx context.Context, record *domain.Record) (*domain.Record, error)
	CountByCategory(ctx context.Context) ([]domain.CategoryCount, error)
}
