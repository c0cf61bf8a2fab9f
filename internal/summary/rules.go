package summary

import "github.com/jengzang/location-history-go/internal/models"

// Rules is the read-only form of the override file used during one run.
// A nil *Rules applies no overrides.
type Rules struct {
	aliases  map[string]string
	suppress map[string]struct{}
	exclude  map[string]struct{}
}

// NewRules indexes an override file
func NewRules(o *models.Overrides) *Rules {
	r := &Rules{
		aliases:  make(map[string]string),
		suppress: make(map[string]struct{}),
		exclude:  make(map[string]struct{}),
	}
	if o == nil {
		return r
	}
	if o.SimilarLabels != nil {
		for from, to := range o.SimilarLabels.Labels {
			r.aliases[from] = to
		}
	}
	if o.Ignore != nil {
		for _, label := range o.Ignore.Labels {
			r.suppress[label] = struct{}{}
		}
	}
	if o.Layovers != nil {
		for _, hash := range o.Layovers.Hashes {
			r.exclude[hash] = struct{}{}
		}
	}
	return r
}

// Canonical returns the aliased label, or the label itself
func (r *Rules) Canonical(label string) string {
	if r == nil {
		return label
	}
	if to, ok := r.aliases[label]; ok {
		return to
	}
	return label
}

// Suppressed reports whether a canonical label is never emitted
func (r *Rules) Suppressed(label string) bool {
	if r == nil {
		return false
	}
	_, ok := r.suppress[label]
	return ok
}

// Excluded reports whether a snapshot identifier is never emitted
func (r *Rules) Excluded(hash string) bool {
	if r == nil {
		return false
	}
	_, ok := r.exclude[hash]
	return ok
}

// Apply aliases the snapshot label and reports whether the snapshot may be
// kept at all.
func (r *Rules) Apply(s models.Snapshot) (models.Snapshot, bool) {
	s.Label = r.Canonical(s.Label)
	if r.Suppressed(s.Label) || r.Excluded(s.Hash) {
		return s, false
	}
	return s, true
}
