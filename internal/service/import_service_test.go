package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const importFixture = `[
  {"date": "2024-02-01T09:00:00Z", "coordinates": [52.3702, 4.8952], "label": "Amsterdam", "timezone": {"name": "Europe/Amsterdam"}, "country_code": "nl"},
  {"date": "2024-01-01T09:00:00Z", "coordinates": [28.6139, 77.209], "label": "New Delhi", "full_label": "New Delhi, Delhi, India", "timezone": {"name": "Asia/Kolkata"}, "country_code": "in", "country_emoji": "🇮🇳"}
]`

func TestImportService_Import(t *testing.T) {
	results, err := DecodeLocationResults(strings.NewReader(importFixture))
	require.NoError(t, err)
	require.Len(t, results, 2)

	store := &memoryStore{}
	n, err := NewImportService(store).Import(context.Background(), results)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	require.Len(t, store.snapshots, 2)
	assert.Equal(t, "New Delhi", store.snapshots[0].Label)
	assert.Equal(t, "Amsterdam", store.snapshots[1].Label)
	assert.Equal(t, [2]float64{52.37, 4.9}, store.snapshots[1].Coordinates)
	assert.Equal(t, "Europe/Amsterdam", store.snapshots[1].TimezoneName)
}

func TestImportService_RejectsInvalidBatch(t *testing.T) {
	results, err := DecodeLocationResults(strings.NewReader(`[
	  {"date": "2024-01-01T09:00:00Z", "coordinates": [28.61, 77.2], "label": "New Delhi"},
	  {"date": "2024-01-02T09:00:00Z", "coordinates": [28.61, 77.2], "label": ""}
	]`))
	require.NoError(t, err)

	store := &memoryStore{}
	_, err = NewImportService(store).Import(context.Background(), results)
	assert.Error(t, err)
	assert.Empty(t, store.snapshots)

	results, err = DecodeLocationResults(strings.NewReader(`[{"date": "2024-01-01T09:00:00Z", "coordinates": [128.61, 77.2], "label": "X"}]`))
	require.NoError(t, err)
	_, err = NewImportService(store).Import(context.Background(), results)
	assert.Error(t, err)
}

func TestDecodeLocationResults_Malformed(t *testing.T) {
	_, err := DecodeLocationResults(strings.NewReader(`{"not": "an array"}`))
	assert.Error(t, err)
}
