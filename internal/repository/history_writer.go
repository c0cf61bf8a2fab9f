package repository

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"

	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/summary"
)

// HistoryFiles maps view names to the files the public site reads
var HistoryFiles = map[string]string{
	models.ViewFull:          "history-full.json",
	models.ViewStays:         "history.json",
	models.ViewPlaces:        "history-unique.json",
	models.ViewCountries:     "history-countries.json",
	models.ViewCountryVisits: "history-countries-full.json",
}

// HistoryWriter writes summary views as indented JSON files
type HistoryWriter struct {
	dir string
}

// NewHistoryWriter creates a writer rooted at dir
func NewHistoryWriter(dir string) *HistoryWriter {
	return &HistoryWriter{dir: dir}
}

// Write replaces every history file. Each file is written to a temporary
// name first and renamed, so readers never see a partial file.
func (w *HistoryWriter) Write(views *summary.Views) ([]string, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	written := make([]string, 0, len(HistoryFiles))
	for _, name := range models.Views {
		view, _ := views.ByName(name)
		path := filepath.Join(w.dir, HistoryFiles[name])
		if err := writeJSONFile(path, view); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeJSONFile(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	data = append(data, '\n')

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
