package service

import (
	"context"

	"github.com/jengzang/location-history-go/internal/geocoding"
	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/summary"
)

// SnapshotStore is the versioned snapshot store
type SnapshotStore interface {
	Append(ctx context.Context, result models.LocationResult) (models.Snapshot, error)
	Latest(ctx context.Context) (*models.Snapshot, error)
	All(ctx context.Context) ([]models.Snapshot, error)
}

// Geocoder resolves coordinates into a place and a timezone
type Geocoder interface {
	Reverse(ctx context.Context, lat, lon float64) (*geocoding.Place, error)
	Timezone(ctx context.Context, lat, lon float64) (string, error)
}

// ViewWriter persists summary views
type ViewWriter interface {
	Write(views *summary.Views) ([]string, error)
}
