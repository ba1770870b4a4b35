package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/civicatlas/records-system/internal/core/domain"
)

const recordsCollection = "records"

// RecordRepository backs the public listing views and the staff write path.
type RecordRepository struct {
	coll *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{coll: db.Collection(recordsCollection)}
}

type mongoRecord struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Title     string             `bson:"title"`
	Category  string             `bson:"category"`
	Location  domain.Coordinates `bson:"location"`
	CreatedBy string             `bson:"created_by"`
	CreatedAt int64              `bson:"created_at"`
}

func (r *RecordRepository) List(ctx context.Context, category string, limit int64) ([]domain.Record, error) {
	filter := bson.M{}
	if category != "" {
		filter["category"] = category
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer cursor.Close(ctx)

	var records []domain.Record
	for cursor.Next(ctx) {
		var mr mongoRecord
		if err := cursor.Decode(&mr); err != nil {
			return nil, fmt.Errorf("decode record: %w", err)
		}
		records = append(records, mr.toDomain())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	return records, nil
}

func (r *RecordRepository) Create(ctx context.Context, record *domain.Record) (*domain.Record, error) {
	doc := mongoRecord{
		Title:     record.Title,
		Category:  record.Category,
		Location:  record.Location,
		CreatedBy: record.CreatedBy,
		CreatedAt: record.CreatedAt.Unix(),
	}

	res, err := r.coll.InsertOne(ctx, doc)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	created := *record
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		created.ID = oid.Hex()
	}
	return &created, nil
}

func (r *RecordRepository) CountByCategory(ctx context.Context) ([]domain.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate records: %w", err)
	}
	defer cursor.Close(ctx)

	var counts []domain.CategoryCount
	if err := cursor.All(ctx, &counts); err != nil {
		return nil, fmt.Errorf("decode aggregation: %w", err)
	}
	return counts, nil
}

func (mr mongoRecord) toDomain() domain.Record {
	return domain.Record{
		ID:        mr.ID.Hex(),
		Title:     mr.Title,
		Category:  mr.Category,
		Location:  mr.Location,
		CreatedBy: mr.CreatedBy,
		CreatedAt: unixToTime(mr.CreatedAt),
	}
}
