package summary

import (
	"time"

	"github.com/jengzang/location-history-go/internal/models"
)

var t0 = time.Date(2023, 3, 1, 8, 0, 0, 0, time.UTC)

type place struct {
	label   string
	country string
	tz      string
	lat     float64
	lon     float64
}

var (
	delhi     = place{"New Delhi", "IN", "Asia/Kolkata", 28.61, 77.21}
	gurugram  = place{"Gurugram", "IN", "Asia/Kolkata", 28.46, 77.03}
	noida     = place{"Noida", "IN", "Asia/Kolkata", 28.54, 77.39}
	mumbai    = place{"Mumbai", "IN", "Asia/Kolkata", 19.08, 72.88}
	goa       = place{"Goa", "IN", "Asia/Kolkata", 15.3, 74.12}
	bengaluru = place{"Bengaluru", "IN", "Asia/Kolkata", 12.97, 77.59}
	chennai   = place{"Chennai", "IN", "Asia/Kolkata", 13.08, 80.27}
	dubai     = place{"Dubai", "AE", "Asia/Dubai", 25.2, 55.27}
	amsterdam = place{"Amsterdam", "NL", "Europe/Amsterdam", 52.37, 4.9}
	utrecht   = place{"Utrecht", "NL", "Europe/Amsterdam", 52.09, 5.12}
)

func at(p place, hash string, offset time.Duration) models.Snapshot {
	return models.Snapshot{
		Label:        p.label,
		Coordinates:  [2]float64{p.lat, p.lon},
		Date:         t0.Add(offset),
		Hash:         hash,
		CountryCode:  p.country,
		TimezoneName: p.tz,
	}
}

func fixedClock(offset time.Duration) Option {
	return WithClock(func() time.Time { return t0.Add(offset) })
}

func labels(stays []models.Snapshot) []string {
	out := make([]string, 0, len(stays))
	for _, s := range stays {
		out = append(out, s.Label)
	}
	return out
}

func hashes(stays []models.Snapshot) []string {
	out := make([]string, 0, len(stays))
	for _, s := range stays {
		out = append(out, s.Hash)
	}
	return out
}
