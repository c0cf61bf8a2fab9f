// Package overrides loads the manual correction file. Summaries must not run
// without it, so every problem is reported as an error.
package overrides

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/jengzang/location-history-go/internal/models"
)

var (
	// ErrMissing is returned when the override file does not exist
	ErrMissing = errors.New("override file not found")
	// ErrMalformed is returned when the file is not a valid override document
	ErrMalformed = errors.New("override file is malformed")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads and validates the override file at path
func Load(path string) (*models.Overrides, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read override file: %w", err)
	}
	return Parse(data)
}

// Parse decodes an override document. Unknown keys are rejected so a typo
// cannot silently disable a rule.
func Parse(data []byte) (*models.Overrides, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	var o models.Overrides
	if err := dec.Decode(&o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := validate.Struct(&o); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for from, to := range o.SimilarLabels.Labels {
		if from == "" || to == "" {
			return nil, fmt.Errorf("%w: empty label alias %q -> %q", ErrMalformed, from, to)
		}
	}
	return &o, nil
}
