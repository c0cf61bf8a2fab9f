package summary

import (
	"time"

	"github.com/jengzang/location-history-go/internal/models"
	"github.com/jengzang/location-history-go/internal/stats"
)

// Statistics describes how long the stays of one summary run lasted
type Statistics struct {
	Stays         stats.Summary            `json:"stays"`
	Places        int                      `json:"places"`
	Countries     int                      `json:"countries"`
	CountryVisits int                      `json:"country_visits"`
	TimeByCountry map[string]time.Duration `json:"time_by_country"`
	Longest       *models.Snapshot         `json:"longest,omitempty"`
}

// Statistics measures each stay until the next one starts. The newest stay
// lasts until now.
func (e *Engine) Statistics(v *Views) Statistics {
	st := Statistics{
		Places:        len(v.Places),
		Countries:     len(v.Countries),
		CountryVisits: len(v.CountryVisits),
		TimeByCountry: make(map[string]time.Duration),
	}

	dwells := make([]time.Duration, 0, len(v.Stays))
	var longest time.Duration
	until := e.now()
	// v.Stays is newest first
	for i := range v.Stays {
		s := v.Stays[i]
		dwell := max(until.Sub(s.Date), 0)
		until = s.Date

		dwells = append(dwells, dwell)
		key := CountryName(s.CountryCode)
		if key == "" {
			key = countryKey(s.CountryCode)
		}
		st.TimeByCountry[key] += dwell
		if st.Longest == nil || dwell > longest {
			st.Longest = &v.Stays[i]
			longest = dwell
		}
	}
	st.Stays = stats.Summarize(dwells)
	return st
}
