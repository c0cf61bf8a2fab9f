package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jengzang/location-history-go/internal/logging"
	"github.com/jengzang/location-history-go/internal/metrics"
	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/spatial"
	"github.com/jengzang/location-history-go/internal/summary"
)

// ErrSkipped is wrapped by every "nothing new to store" outcome
var ErrSkipped = errors.New("skipping update")

var (
	ErrUpdatedRecently = fmt.Errorf("%w because was updated recently", ErrSkipped)
	ErrSameCoordinates = fmt.Errorf("%w because coordinates is similar", ErrSkipped)
	ErrSameLabel       = fmt.Errorf("%w because location label is the same", ErrSkipped)

	ErrCountryNotFound  = errors.New("country not found")
	ErrTimezoneNotFound = errors.New("timezone not found")
)

// latinLabel matches names that render in Latin script
var latinLabel = regexp.MustCompile(`[A-Za-z\x{00C0}-\x{00FF}]+`)

// UpdateRequest is one location report from the phone
type UpdateRequest struct {
	Lat       float64
	Lon       float64
	Time      time.Time
	SkipCheck bool // store even if nothing changed
}

// LocationService accepts location updates into the snapshot store
type LocationService struct {
	store       SnapshotStore
	geocoder    Geocoder
	minInterval time.Duration
}

// NewLocationService creates a new location service
func NewLocationService(store SnapshotStore, geocoder Geocoder, minInterval time.Duration) *LocationService {
	return &LocationService{
		store:       store,
		geocoder:    geocoder,
		minInterval: minInterval,
	}
}

// Latest returns the current location, or nil before the first update
func (s *LocationService) Latest(ctx context.Context) (*models.Snapshot, error) {
	return s.store.Latest(ctx)
}

// Update resolves and stores a location update. Updates that add nothing
// new return an error wrapping ErrSkipped.
func (s *LocationService) Update(ctx context.Context, req UpdateRequest) (*models.LocationUpdateResponse, error) {
	log := logging.With("location")

	previous, err := s.store.Latest(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read previous location: %w", err)
	}

	if !req.SkipCheck && previous != nil && req.Time.Sub(previous.Date) < s.minInterval {
		return nil, s.skip(ErrUpdatedRecently, "recent")
	}

	coordinates := spatial.RoundPair(req.Lat, req.Lon)
	if !req.SkipCheck && previous != nil && coordinates == previous.Coordinates {
		return nil, s.skip(ErrSameCoordinates, "coordinates")
	}

	place, err := s.geocoder.Reverse(ctx, coordinates[0], coordinates[1])
	if err != nil {
		return nil, fmt.Errorf("failed to reverse geocode: %w", err)
	}

	countryName := summary.CountryName(place.Address.CountryCode)
	if countryName == "" {
		return nil, fmt.Errorf("%w: %q", ErrCountryNotFound, place.Address.CountryCode)
	}
	label := PlaceLabel(countryName, place.Address.State, place.Address.Town, place.Address.City)

	timezone, err := s.geocoder.Timezone(ctx, coordinates[0], coordinates[1])
	if err != nil || timezone == "" {
		return nil, errors.Join(ErrTimezoneNotFound, err)
	}

	if !req.SkipCheck && previous != nil && label == previous.Label {
		return nil, s.skip(ErrSameLabel, "label")
	}

	result := models.LocationResult{
		Date:         req.Time,
		Coordinates:  coordinates,
		Label:        label,
		FullLabel:    place.DisplayName,
		Timezone:     &models.Timezone{Name: timezone},
		CountryCode:  strings.ToLower(place.Address.CountryCode),
		CountryEmoji: CountryFlag(place.Address.CountryCode),
	}

	snapshot, err := s.store.Append(ctx, result)
	if err != nil {
		log.Error().Err(err).Str("label", label).Time("date", req.Time).
			Floats64("coordinates", coordinates[:]).Msg("failed to store location")
		return nil, fmt.Errorf("failed to store location: %w", err)
	}

	resp := &models.LocationUpdateResponse{
		Snapshot: snapshot,
		Message:  fmt.Sprintf("📍%s %s", result.CountryEmoji, label),
	}
	if previous != nil {
		resp.DistanceKm = spatial.DistanceKm(previous.Coordinates, coordinates)
		metrics.DistanceMoved.Observe(resp.DistanceKm)
	}
	metrics.LocationUpdates.WithLabelValues(metrics.OutcomeAccepted, "").Inc()

	log.Info().Str("hash", snapshot.Hash).Str("label", label).Str("country", result.CountryCode).
		Float64("distance_km", resp.DistanceKm).Msg("location updated")
	return resp, nil
}

func (s *LocationService) skip(err error, reason string) error {
	metrics.LocationUpdates.WithLabelValues(metrics.OutcomeSkipped, reason).Inc()
	return err
}

// PlaceLabel picks the most specific readable name: city over town over
// state, falling back to the country name.
func PlaceLabel(country string, options ...string) string {
	label := country
	for _, option := range options {
		if option != "" && latinLabel.MatchString(option) {
			label = option
		}
	}
	return label
}

// CountryFlag returns the flag emoji of an ISO 3166 alpha-2 code, or a globe
func CountryFlag(code string) string {
	code = strings.ToUpper(code)
	if len(code) != 2 || code[0] < 'A' || code[0] > 'Z' || code[1] < 'A' || code[1] > 'Z' {
		return "🌍"
	}
	const regionalIndicatorA = 0x1F1E6
	return string([]rune{
		rune(regionalIndicatorA + int(code[0]-'A')),
		rune(regionalIndicatorA + int(code[1]-'A')),
	})
}
