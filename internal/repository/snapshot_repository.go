package repository

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/goccy/go-json"

	"github.com/jengzang/location-history-go/internal/database"
	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/spatial"
	"github.com/jengzang/location-history-go/internal/summary"
)

// ErrMalformedSnapshot is returned when a stored row cannot be read back.
// Segmentation depends on every neighbour, so the whole read fails.
var ErrMalformedSnapshot = errors.New("malformed snapshot")

const recordedAtLayout = time.RFC3339Nano

// SnapshotRepository is the append-only, versioned snapshot store. Every
// appended snapshot is identified by a hash over its parent's hash and its
// own payload, so an identifier never changes once written.
type SnapshotRepository struct {
	db *sql.DB
}

// NewSnapshotRepository creates a new snapshot repository
func NewSnapshotRepository(db *sql.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// SnapshotHash derives the identifier of a payload appended after parent
func SnapshotHash(parent string, payload []byte) string {
	h := sha1.New()
	h.Write([]byte(parent))
	h.Write([]byte{'\n'})
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// Append stores a location result as the newest snapshot
func (r *SnapshotRepository) Append(ctx context.Context, result models.LocationResult) (models.Snapshot, error) {
	result.Date = result.Date.UTC()
	payload, err := json.Marshal(result)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("failed to encode snapshot: %w", err)
	}

	var snapshot models.Snapshot
	err = database.Transaction(r.db, func(tx *sql.Tx) error {
		var parent string
		err := tx.QueryRowContext(ctx, "SELECT hash FROM snapshots ORDER BY seq DESC LIMIT 1").Scan(&parent)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("failed to read latest snapshot: %w", err)
		}

		hash := SnapshotHash(parent, payload)
		_, err = tx.ExecContext(ctx, `
			INSERT INTO snapshots (
				hash, parent_hash, recorded_at, latitude, longitude,
				label, full_label, country_code, country_emoji, timezone_name, payload
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			hash, parent, result.Date.Format(recordedAtLayout),
			result.Coordinates[0], result.Coordinates[1],
			result.Label, result.FullLabel, result.CountryCode, result.CountryEmoji,
			result.TimezoneName(), string(payload),
		)
		if err != nil {
			return fmt.Errorf("failed to insert snapshot: %w", err)
		}

		snapshot = models.Snapshot{
			Label:        result.Label,
			Coordinates:  result.Coordinates,
			Date:         result.Date,
			Hash:         hash,
			CountryCode:  result.CountryCode,
			TimezoneName: result.TimezoneName(),
		}
		return nil
	})
	return snapshot, err
}

const snapshotColumns = `hash, recorded_at, latitude, longitude, label, country_code, timezone_name`

// Latest returns the most recently appended snapshot, or nil for an empty store
func (r *SnapshotRepository) Latest(ctx context.Context) (*models.Snapshot, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+snapshotColumns+" FROM snapshots ORDER BY seq DESC LIMIT 1")
	s, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// All returns every snapshot ascending by date
func (r *SnapshotRepository) All(ctx context.Context) ([]models.Snapshot, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+snapshotColumns+" FROM snapshots ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := make([]models.Snapshot, 0)
	for rows.Next() {
		s, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate snapshots: %w", err)
	}

	// Imports may append history out of order
	summary.SortAscending(snapshots)
	return snapshots, nil
}

// Count returns the number of stored snapshots
func (r *SnapshotRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count snapshots: %w", err)
	}
	return n, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnapshot(row rowScanner) (models.Snapshot, error) {
	var (
		hash, recordedAt, label, country, timezone string
		lat, lon                                   sql.NullString
	)
	if err := row.Scan(&hash, &recordedAt, &lat, &lon, &label, &country, &timezone); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Snapshot{}, err
		}
		return models.Snapshot{}, fmt.Errorf("failed to scan snapshot: %w", err)
	}

	date, err := time.Parse(recordedAtLayout, recordedAt)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("%w %s: timestamp %q: %v", ErrMalformedSnapshot, hash, recordedAt, err)
	}

	latitude, latErr := strconv.ParseFloat(lat.String, 64)
	longitude, lonErr := strconv.ParseFloat(lon.String, 64)
	if latErr != nil || lonErr != nil || !spatial.ValidLatLng(latitude, longitude) {
		return models.Snapshot{}, fmt.Errorf("%w %s: coordinates (%q, %q)", ErrMalformedSnapshot, hash, lat.String, lon.String)
	}

	return models.Snapshot{
		Label:        label,
		Coordinates:  [2]float64{latitude, longitude},
		Date:         date,
		Hash:         hash,
		CountryCode:  country,
		TimezoneName: timezone,
	}, nil
}
