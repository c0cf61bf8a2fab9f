package models

import "time"

// Timezone is the resolved IANA zone of a location update
type Timezone struct {
	Name string `json:"name"`
}

// LocationResult is the payload persisted for every accepted location update.
// It is the unit the store hashes and appends.
type LocationResult struct {
	Date         time.Time  `json:"date" validate:"required"`
	Coordinates  [2]float64 `json:"coordinates"`
	Label        string     `json:"label" validate:"required"`
	FullLabel    string     `json:"full_label"`
	Timezone     *Timezone  `json:"timezone,omitempty"`
	CountryCode  string     `json:"country_code"`
	CountryEmoji string     `json:"country_emoji"`
}

// TimezoneName returns the zone name or "" when unresolved
func (r LocationResult) TimezoneName() string {
	if r.Timezone == nil {
		return ""
	}
	return r.Timezone.Name
}

// OwnTracksRequest is the body posted by the OwnTracks client
type OwnTracksRequest struct {
	Lat  float64 `json:"lat" binding:"min=-90,max=90"`
	Lon  float64 `json:"lon" binding:"min=-180,max=180"`
	Tst  int64   `json:"tst"` // Unix timestamp in seconds
	Acc  float64 `json:"acc"`
	Alt  float64 `json:"alt"`
	Batt int     `json:"batt"`
	Vel  float64 `json:"vel"`
	Conn string  `json:"conn"`
}

// LocationUpdateResponse is returned after a location update was stored
type LocationUpdateResponse struct {
	Snapshot   Snapshot `json:"snapshot"`
	Message    string   `json:"message"`
	DistanceKm float64  `json:"distance_km"`
}
