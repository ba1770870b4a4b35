package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/civicatlas/records-system/internal/core/domain"
)

type stubRecordRepo struct {
	records   []domain.Record
	listCalls int
}

func (r *stubRecordRepo) List(_ context.Context, category string, _ int64) ([]domain.Record, error) {
	r.listCalls++
	if category == "" {
		return append([]domain.Record(nil), r.records...), nil
	}
	var out []domain.Record
	for _, rec := range r.records {
		if rec.Category == category {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *stubRecordRepo) Create(_ context.Context, record *domain.Record) (*domain.Record, error) {
	created := *record
	created.ID = "r1"
	r.records = append(r.records, created)
	return &created, nil
}

func (r *stubRecordRepo) CountByCategory(_ context.Context) ([]domain.CategoryCount, error) {
	counts := map[string]int64{}
	for _, rec := range r.records {
		counts[rec.Category]++
	}
	var out []domain.CategoryCount
	for cat, n := range counts {
		out = append(out, domain.CategoryCount{Category: cat, Count: n})
	}
	return out, nil
}

type memCache struct {
	data map[string][]byte
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	if v, ok := c.data[key]; ok {
		return v, nil
	}
	return nil, nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	if c.data == nil {
		c.data = map[string][]byte{}
	}
	c.data[key] = value
	return nil
}

func TestRecordService_ListPublic_Caches(t *testing.T) {
	repo := &stubRecordRepo{records: []domain.Record{
		{ID: "a", Title: "Town Hall", Category: "civic"},
		{ID: "b", Title: "Old Mill", Category: "heritage"},
	}}
	svc := NewRecordService(repo, &memCache{}, zerolog.Nop())

	first, err := svc.ListPublic(context.Background(), "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(first) != 2 {
		t.Fatalf("expected 2 records, got %d", len(first))
	}

	second, err := svc.ListPublic(context.Background(), "")
	if err != nil {
		t.Fatalf("list (cached): %v", err)
	}
	if len(second) != 2 {
		t.Fatalf("expected 2 records from cache, got %d", len(second))
	}
	if repo.listCalls != 1 {
		t.Fatalf("expected one repository call, got %d", repo.listCalls)
	}
}

func TestRecordService_MapPoints(t *testing.T) {
	repo := &stubRecordRepo{records: []domain.Record{
		{ID: "a", Title: "Town Hall", Category: "civic", Location: domain.Coordinates{Lat: 51.5, Lng: -0.1}},
	}}
	svc := NewRecordService(repo, nil, zerolog.Nop())

	points, err := svc.MapPoints(context.Background())
	if err != nil {
		t.Fatalf("map points: %v", err)
	}
	if len(points) != 1 || points[0].Location.Lat != 51.5 {
		t.Fatalf("unexpected points: %+v", points)
	}
}

func TestRecordService_Create(t *testing.T) {
	repo := &stubRecordRepo{}
	svc := NewRecordService(repo, nil, zerolog.Nop())
	identity := domain.Identity{UserID: "u1", Username: "alice", Role: domain.RoleStaff}

	record, err := svc.Create(context.Background(), identity, "Library", "civic", domain.Coordinates{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.CreatedBy != "u1" {
		t.Fatalf("expected created_by u1, got %s", record.CreatedBy)
	}

	if _, err := svc.Create(context.Background(), identity, "", "civic", domain.Coordinates{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}
