package domain

import (
	"errors"
	"time"
)

var ErrRecordNotFound = errors.New("record not found")

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

// Record is a published entry in the registry. Only the fields needed by the
// public listing and map views live here; form handling and uploads belong to
// the collaborator layer.
type Record struct {
	ID        string      `json:"id" bson:"_id,omitempty"`
	Title     string      `json:"title" bson:"title"`
	Category  string      `json:"category" bson:"category"`
	Location  Coordinates `json:"location" bson:"location"`
	CreatedBy string      `json:"created_by" bson:"created_by"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
}

// MapPoint is the reduced projection served to map renderers.
type MapPoint struct {
	ID       string      `json:"id"`
	Title    string      `json:"title"`
	Category string      `json:"category"`
	Location Coordinates `json:"location"`
}

// CategoryCount is one bucket of the admin statistics aggregation.
type CategoryCount struct {
	Category string `json:"category" bson:"_id"`
	Count    int64  `json:"count" bson:"count"`
}
