package summary

import (
	"slices"

	"github.com/jengzang/location-history-go/internal/models"
)

// Views holds every projection of one summary run, each newest first
type Views struct {
	Full          []models.Snapshot `json:"full"`
	Stays         []models.Snapshot `json:"stays"`
	Places        []models.Snapshot `json:"places"`
	Countries     []models.Snapshot `json:"countries"`
	CountryVisits []models.Snapshot `json:"countries_full"`
}

// ByName returns a view by its models.View* name
func (v *Views) ByName(name string) ([]models.Snapshot, bool) {
	switch name {
	case models.ViewFull:
		return v.Full, true
	case models.ViewStays:
		return v.Stays, true
	case models.ViewPlaces:
		return v.Places, true
	case models.ViewCountries:
		return v.Countries, true
	case models.ViewCountryVisits:
		return v.CountryVisits, true
	}
	return nil, false
}

// Summarize sorts the snapshots, segments them and derives every view
func (e *Engine) Summarize(snapshots []models.Snapshot) *Views {
	ordered := slices.Clone(snapshots)
	SortAscending(ordered)

	stays := e.Stays(ordered)

	return &Views{
		Full:          FullHistory(ordered, e.rules),
		Stays:         descending(stays),
		Places:        UniquePlaces(stays),
		Countries:     FirstCountryVisits(stays),
		CountryVisits: CountryVisits(stays),
	}
}

// FullHistory returns every raw snapshot newest first, independent of
// segmentation. The rules still alias labels and drop excluded entries.
func FullHistory(snapshots []models.Snapshot, rules *Rules) []models.Snapshot {
	out := make([]models.Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s, ok := rules.Apply(s); ok {
			out = append(out, s)
		}
	}
	SortDescending(out)
	return out
}

// UniquePlaces keeps the first stay of every (label, country) pair
func UniquePlaces(stays []models.Snapshot) []models.Snapshot {
	type place struct{ label, country string }

	seen := make(map[place]struct{})
	out := make([]models.Snapshot, 0)
	for _, s := range stays {
		key := place{s.Label, countryKey(s.CountryCode)}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	SortDescending(out)
	return out
}

// FirstCountryVisits keeps the first stay in every country, labelled with
// the country name
func FirstCountryVisits(stays []models.Snapshot) []models.Snapshot {
	seen := make(map[string]struct{})
	out := make([]models.Snapshot, 0)
	for _, s := range stays {
		key := countryKey(s.CountryCode)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, countryLabelled(s))
	}
	SortDescending(out)
	return out
}

// CountryVisits collapses only adjacent stays in the same country, so
// returning to a country counts as a new visit
func CountryVisits(stays []models.Snapshot) []models.Snapshot {
	out := make([]models.Snapshot, 0)
	for i, s := range stays {
		if i > 0 && countryKey(stays[i-1].CountryCode) == countryKey(s.CountryCode) {
			continue
		}
		out = append(out, countryLabelled(s))
	}
	SortDescending(out)
	return out
}

func countryLabelled(s models.Snapshot) models.Snapshot {
	switch name := CountryName(s.CountryCode); {
	case name != "":
		s.Label = name
	case s.CountryCode != "":
		s.Label = s.CountryCode
	}
	return s
}

func descending(stays []models.Snapshot) []models.Snapshot {
	out := slices.Clone(stays)
	if out == nil {
		out = make([]models.Snapshot, 0)
	}
	SortDescending(out)
	return out
}

// SortAscending orders snapshots oldest first, keeping input order on ties
func SortAscending(s []models.Snapshot) {
	slices.SortStableFunc(s, func(a, b models.Snapshot) int {
		return a.Date.Compare(b.Date)
	})
}

// SortDescending orders snapshots newest first, keeping input order on ties
func SortDescending(s []models.Snapshot) {
	slices.SortStableFunc(s, func(a, b models.Snapshot) int {
		return b.Date.Compare(a.Date)
	})
}
