package models

import "time"

// Snapshot is one accepted, privacy-rounded location update as read back
// from the store. It is also the shape of every entry in the history views.
type Snapshot struct {
	Label        string     `json:"label"`
	Coordinates  [2]float64 `json:"coordinates"` // [latitude, longitude], two decimals
	Date         time.Time  `json:"date"`
	Hash         string     `json:"hash"`
	CountryCode  string     `json:"country_code"`
	TimezoneName string     `json:"timezone_name"`
}

// Latitude returns the rounded latitude
func (s Snapshot) Latitude() float64 {
	return s.Coordinates[0]
}

// Longitude returns the rounded longitude
func (s Snapshot) Longitude() float64 {
	return s.Coordinates[1]
}

// History view names, also used as output file stems
const (
	ViewFull          = "full"
	ViewStays         = "stays"
	ViewPlaces        = "places"
	ViewCountries     = "countries"
	ViewCountryVisits = "countries-full"
)

// Views lists every history view name
var Views = []string{ViewFull, ViewStays, ViewPlaces, ViewCountries, ViewCountryVisits}
