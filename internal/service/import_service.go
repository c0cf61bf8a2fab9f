package service

import (
	"context"
	"fmt"
	"io"
	"slices"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/jengzang/location-history-go/internal/logging"
	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/spatial"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ImportService appends historical location results to the store
type ImportService struct {
	store SnapshotStore
}

// NewImportService creates a new import service
func NewImportService(store SnapshotStore) *ImportService {
	return &ImportService{store: store}
}

// DecodeLocationResults reads a JSON array of location results
func DecodeLocationResults(r io.Reader) ([]models.LocationResult, error) {
	var results []models.LocationResult
	if err := json.NewDecoder(r).Decode(&results); err != nil {
		return nil, fmt.Errorf("failed to decode location results: %w", err)
	}
	return results, nil
}

// Import validates every result, then appends them oldest first. Nothing is
// stored when any result is invalid.
func (s *ImportService) Import(ctx context.Context, results []models.LocationResult) (int, error) {
	for i, r := range results {
		if err := validate.Struct(r); err != nil {
			return 0, fmt.Errorf("result %d: %w", i, err)
		}
		if !spatial.ValidLatLng(r.Coordinates[0], r.Coordinates[1]) {
			return 0, fmt.Errorf("result %d: invalid coordinates %v", i, r.Coordinates)
		}
	}

	ordered := slices.Clone(results)
	slices.SortStableFunc(ordered, func(a, b models.LocationResult) int {
		return a.Date.Compare(b.Date)
	})

	log := logging.With("import")
	for i, r := range ordered {
		r.Coordinates = spatial.RoundPair(r.Coordinates[0], r.Coordinates[1])
		if r.CountryEmoji == "" {
			r.CountryEmoji = CountryFlag(r.CountryCode)
		}
		snapshot, err := s.store.Append(ctx, r)
		if err != nil {
			return i, fmt.Errorf("failed to append %q: %w", r.Label, err)
		}
		log.Info().Str("hash", snapshot.Hash).Str("label", r.Label).Time("date", r.Date).Msg("added")
	}
	return len(ordered), nil
}
