package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/summary"
)

func tripStore() *memoryStore {
	day := 24 * time.Hour
	return &memoryStore{snapshots: []models.Snapshot{
		{Label: "New Delhi", Coordinates: [2]float64{28.61, 77.21}, Date: now, Hash: "a", CountryCode: "in", TimezoneName: "Asia/Kolkata"},
		{Label: "Dubai", Coordinates: [2]float64{25.2, 55.27}, Date: now.Add(3 * day), Hash: "b", CountryCode: "ae", TimezoneName: "Asia/Dubai"},
		{Label: "Amsterdam", Coordinates: [2]float64{52.37, 4.9}, Date: now.Add(5 * day), Hash: "c", CountryCode: "nl", TimezoneName: "Europe/Amsterdam"},
	}}
}

func newTestEngine() *summary.Engine {
	return summary.NewEngine(summary.NewRules(nil), summary.WithClock(func() time.Time {
		return now.Add(30 * 24 * time.Hour)
	}))
}

func TestSummaryService_Summarize(t *testing.T) {
	svc := NewSummaryService(tripStore(), newTestEngine(), nil)

	views, err := svc.Summarize(context.Background())
	require.NoError(t, err)
	assert.Len(t, views.Full, 3)
	require.Len(t, views.Stays, 3)
	assert.Equal(t, "Amsterdam", views.Stays[0].Label)
	assert.Equal(t, "Netherlands", views.Countries[0].Label)
}

func TestSummaryService_View(t *testing.T) {
	svc := NewSummaryService(tripStore(), newTestEngine(), nil)

	view, err := svc.View(context.Background(), models.ViewPlaces)
	require.NoError(t, err)
	assert.Len(t, view, 3)

	_, err = svc.View(context.Background(), "nope")
	assert.Error(t, err)
}

func TestSummaryService_Publish(t *testing.T) {
	writer := &recordingWriter{}
	svc := NewSummaryService(tripStore(), newTestEngine(), writer)

	files, err := svc.Publish(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"history.json"}, files)
	require.NotNil(t, writer.views)
	assert.Len(t, writer.views.Stays, 3)
}

func TestSummaryService_Errors(t *testing.T) {
	boom := errors.New("malformed")

	svc := NewSummaryService(&memoryStore{readErr: boom}, newTestEngine(), &recordingWriter{})
	_, err := svc.Publish(context.Background())
	assert.ErrorIs(t, err, boom)

	svc = NewSummaryService(tripStore(), newTestEngine(), &recordingWriter{err: boom})
	_, err = svc.Publish(context.Background())
	assert.ErrorIs(t, err, boom)

	svc = NewSummaryService(tripStore(), newTestEngine(), nil)
	_, err = svc.Publish(context.Background())
	assert.Error(t, err)
}

func TestSummaryService_Statistics(t *testing.T) {
	svc := NewSummaryService(tripStore(), newTestEngine(), nil)

	st, err := svc.Statistics(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, st.Stays.Count)
	assert.Equal(t, 30*24*time.Hour, st.Stays.Total)
	require.NotNil(t, st.Longest)
	assert.Equal(t, "Amsterdam", st.Longest.Label)
}
