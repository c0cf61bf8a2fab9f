package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jengzang/location-history-go/internal/models"
)

func TestRules(t *testing.T) {
	rules := NewRules(&models.Overrides{
		SimilarLabels: &models.LabelAliases{Labels: map[string]string{"Bengaluru": "Bangalore"}},
		Ignore:        &models.IgnoreRules{Labels: []string{"Sea"}},
		Layovers:      &models.Layovers{Hashes: []string{"abc123"}},
	})

	assert.Equal(t, "Bangalore", rules.Canonical("Bengaluru"))
	assert.Equal(t, "Bangalore", rules.Canonical("Bangalore"))
	assert.Equal(t, "bengaluru", rules.Canonical("bengaluru"))
	assert.True(t, rules.Suppressed("Sea"))
	assert.False(t, rules.Suppressed("Bangalore"))
	assert.True(t, rules.Excluded("abc123"))
	assert.False(t, rules.Excluded("abc124"))

	s, ok := rules.Apply(at(bengaluru, "b1", 0))
	assert.True(t, ok)
	assert.Equal(t, "Bangalore", s.Label)

	_, ok = rules.Apply(at(bengaluru, "abc123", 0))
	assert.False(t, ok)
}

func TestRules_Nil(t *testing.T) {
	var rules *Rules

	assert.Equal(t, "Goa", rules.Canonical("Goa"))
	assert.False(t, rules.Suppressed("Goa"))
	assert.False(t, rules.Excluded("x"))

	_, ok := NewRules(nil).Apply(at(goa, "g", 0))
	assert.True(t, ok)
}
