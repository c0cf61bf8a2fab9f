package summary

import (
	"strings"
	"time"

	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/spatial"
)

// Params tunes segmentation
type Params struct {
	// BreakDistance is the planar distance in degrees above which two
	// neighbouring snapshots belong to different stays.
	BreakDistance float64
	// LayoverThreshold is the dwell a held-back snapshot needs before it is
	// emitted as a stay of its own.
	LayoverThreshold time.Duration
}

// DefaultParams returns the production thresholds
func DefaultParams() Params {
	return Params{
		BreakDistance:    2.0,
		LayoverThreshold: 12 * time.Hour,
	}
}

// Boundary names the test that ended a segment
type Boundary int

const (
	BoundaryNone Boundary = iota
	BoundarySpatial
	BoundaryCountry
	BoundaryTimezone
)

func (b Boundary) String() string {
	switch b {
	case BoundarySpatial:
		return "spatial"
	case BoundaryCountry:
		return "country"
	case BoundaryTimezone:
		return "timezone"
	default:
		return "none"
	}
}

// Engine segments a snapshot series into stays
type Engine struct {
	params Params
	rules  *Rules
	now    func() time.Time
}

// Option configures an Engine
type Option func(*Engine)

// WithClock replaces time.Now, which dates the open-ended final stay
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// WithParams replaces DefaultParams
func WithParams(p Params) Option {
	return func(e *Engine) {
		e.params = p
	}
}

// NewEngine creates an engine bound to one override rule set
func NewEngine(rules *Rules, opts ...Option) *Engine {
	e := &Engine{
		params: DefaultParams(),
		rules:  rules,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Rules returns the override rules the engine applies
func (e *Engine) Rules() *Rules {
	return e.rules
}

// BoundaryBetween reports which test, if any, separates two consecutive
// snapshots. Tests are checked in order spatial, country, timezone.
func (e *Engine) BoundaryBetween(previous, current models.Snapshot) Boundary {
	if spatial.PlanarDistance(previous.Coordinates, current.Coordinates) > e.params.BreakDistance {
		return BoundarySpatial
	}
	if previous.CountryCode != "" && current.CountryCode != "" &&
		!strings.EqualFold(previous.CountryCode, current.CountryCode) {
		return BoundaryCountry
	}
	// An absent zone differs from any present one
	if previous.TimezoneName != current.TimezoneName {
		return BoundaryTimezone
	}
	return BoundaryNone
}

// held is a snapshot waiting for the end of its ambiguous run
type held struct {
	snapshot models.Snapshot
	dwell    time.Duration
}

// longest returns the first held entry with the greatest dwell
func longest(run []held) held {
	best := run[0]
	for _, h := range run[1:] {
		if h.dwell > best.dwell {
			best = h
		}
	}
	return best
}

// timeline accumulates emitted stays
type timeline struct {
	rules *Rules
	stays []models.Snapshot
}

// differs reports whether label, once aliased, is not the last emitted label
func (t *timeline) differs(label string) bool {
	if len(t.stays) == 0 {
		return true
	}
	return t.stays[len(t.stays)-1].Label != t.rules.Canonical(label)
}

// emit appends s unless the override rules drop it
func (t *timeline) emit(s models.Snapshot) bool {
	s, ok := t.rules.Apply(s)
	if !ok {
		return false
	}
	t.stays = append(t.stays, s)
	return true
}

// Stays walks snapshots, which must be sorted ascending by date, and returns
// the emitted stays in the same order. The input is not modified.
func (e *Engine) Stays(snapshots []models.Snapshot) []models.Snapshot {
	t := &timeline{rules: e.rules, stays: make([]models.Snapshot, 0)}
	var run []held

	for i, current := range snapshots {
		if i == 0 {
			t.emit(current)
			continue
		}

		if e.BoundaryBetween(snapshots[i-1], current) == BoundaryNone {
			var dwell time.Duration
			if i+1 < len(snapshots) {
				dwell = snapshots[i+1].Date.Sub(current.Date)
			}
			run = append(run, held{snapshot: current, dwell: dwell})
			continue
		}

		var layover *held
		if len(run) > 0 {
			if best := longest(run); best.dwell > e.params.LayoverThreshold && t.differs(best.snapshot.Label) {
				if t.emit(best.snapshot) {
					layover = &best
				}
			}
		}

		// A layover already stands for this country; do not follow it with a
		// second stay in the same country.
		sameCountryAsLayover := layover != nil &&
			strings.EqualFold(layover.snapshot.CountryCode, current.CountryCode)
		if !sameCountryAsLayover && t.differs(current.Label) {
			t.emit(current)
		}
		run = run[:0]
	}

	// The series ended inside an ambiguous run: the last snapshot is still
	// ongoing, so it dwells until now.
	if len(run) > 0 {
		last := &run[len(run)-1]
		last.dwell = e.now().Sub(last.snapshot.Date)
		if best := longest(run); t.differs(best.snapshot.Label) {
			t.emit(best.snapshot)
		}
	}

	return t.stays
}
