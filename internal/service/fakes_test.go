package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/jengzang/location-history-go/internal/geocoding"
	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/summary"
)

type memoryStore struct {
	mu        sync.Mutex
	snapshots []models.Snapshot
	appendErr error
	readErr   error
}

func (m *memoryStore) Append(_ context.Context, r models.LocationResult) (models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.appendErr != nil {
		return models.Snapshot{}, m.appendErr
	}
	s := models.Snapshot{
		Label:        r.Label,
		Coordinates:  r.Coordinates,
		Date:         r.Date,
		Hash:         fmt.Sprintf("h%d", len(m.snapshots)+1),
		CountryCode:  r.CountryCode,
		TimezoneName: r.TimezoneName(),
	}
	m.snapshots = append(m.snapshots, s)
	return s, nil
}

func (m *memoryStore) Latest(context.Context) (*models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	if len(m.snapshots) == 0 {
		return nil, nil
	}
	latest := m.snapshots[len(m.snapshots)-1]
	return &latest, nil
}

func (m *memoryStore) All(context.Context) ([]models.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return nil, m.readErr
	}
	out := make([]models.Snapshot, len(m.snapshots))
	copy(out, m.snapshots)
	return out, nil
}

type stubGeocoder struct {
	place       *geocoding.Place
	timezone    string
	reverseErr  error
	timezoneErr error
	calls       int
}

func (g *stubGeocoder) Reverse(context.Context, float64, float64) (*geocoding.Place, error) {
	g.calls++
	if g.reverseErr != nil {
		return nil, g.reverseErr
	}
	return g.place, nil
}

func (g *stubGeocoder) Timezone(context.Context, float64, float64) (string, error) {
	return g.timezone, g.timezoneErr
}

func cityPlace(city, state, code, display string) *geocoding.Place {
	p := &geocoding.Place{DisplayName: display}
	p.Address.City = city
	p.Address.State = state
	p.Address.CountryCode = code
	return p
}

type recordingWriter struct {
	views *summary.Views
	err   error
}

func (w *recordingWriter) Write(views *summary.Views) ([]string, error) {
	w.views = views
	if w.err != nil {
		return nil, w.err
	}
	return []string{"history.json"}, nil
}
