package service

import (
	"context"
	"fmt"
	"time"

	"github.com/jengzang/location-history-go/internal/logging"
	"github.com/jengzang/location-history-go/internal/metrics"
	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/summary"
)

// SummaryService derives the history views from the snapshot store
type SummaryService struct {
	store  SnapshotStore
	engine *summary.Engine
	writer ViewWriter
}

// NewSummaryService creates a summary service. writer may be nil when the
// views are only served over HTTP.
func NewSummaryService(store SnapshotStore, engine *summary.Engine, writer ViewWriter) *SummaryService {
	return &SummaryService{
		store:  store,
		engine: engine,
		writer: writer,
	}
}

// Summarize reads every snapshot and derives all views
func (s *SummaryService) Summarize(ctx context.Context) (*summary.Views, error) {
	start := time.Now()

	snapshots, err := s.store.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}

	views := s.engine.Summarize(snapshots)

	elapsed := time.Since(start)
	metrics.SummaryDuration.Observe(elapsed.Seconds())
	for _, name := range models.Views {
		view, _ := views.ByName(name)
		metrics.SummaryEntries.WithLabelValues(name).Set(float64(len(view)))
	}

	logging.With("summary").Info().
		Int("snapshots", len(snapshots)).
		Int("stays", len(views.Stays)).
		Int("places", len(views.Places)).
		Int("countries", len(views.Countries)).
		Dur("elapsed", elapsed).
		Msg("summary finished")
	return views, nil
}

// View returns a single view by name
func (s *SummaryService) View(ctx context.Context, name string) ([]models.Snapshot, error) {
	views, err := s.Summarize(ctx)
	if err != nil {
		return nil, err
	}
	view, ok := views.ByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown history view %q", name)
	}
	return view, nil
}

// Publish summarizes and writes every view
func (s *SummaryService) Publish(ctx context.Context) ([]string, error) {
	if s.writer == nil {
		return nil, fmt.Errorf("no history writer configured")
	}
	views, err := s.Summarize(ctx)
	if err != nil {
		return nil, err
	}
	files, err := s.writer.Write(views)
	if err != nil {
		return files, fmt.Errorf("failed to write history: %w", err)
	}
	return files, nil
}

// Statistics summarizes the store and measures the resulting stays
func (s *SummaryService) Statistics(ctx context.Context) (*summary.Statistics, error) {
	views, err := s.Summarize(ctx)
	if err != nil {
		return nil, err
	}
	st := s.engine.Statistics(views)
	return &st, nil
}
