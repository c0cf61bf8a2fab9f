// Package geocoding resolves rounded coordinates into place names and
// timezones through public HTTP services.
package geocoding

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrNotFound is returned when a service has no answer for a coordinate
var ErrNotFound = errors.New("no result for coordinates")

// Config configures the HTTP clients
type Config struct {
	BaseURL     string
	TimezoneURL string
	UserAgent   string
	Timeout     time.Duration
	RetryCount  int
}

// Place is the subset of a Nominatim reverse lookup we use
type Place struct {
	Name        string  `json:"name"`
	DisplayName string  `json:"display_name"`
	Address     Address `json:"address"`
	Error       string  `json:"error,omitempty"`
}

// Address holds the administrative parts of a place
type Address struct {
	Country     string `json:"country"`
	CountryCode string `json:"country_code"`
	State       string `json:"state"`
	Town        string `json:"town"`
	City        string `json:"city"`
}

type timezoneResponse struct {
	TimeZone string `json:"timeZone"`
}

// Client talks to Nominatim and to a coordinate timezone service
type Client struct {
	places    *resty.Client
	timezones *resty.Client
}

// NewClient creates a geocoding client
func NewClient(cfg Config) *Client {
	newHTTP := func(baseURL string) *resty.Client {
		return resty.New().
			SetBaseURL(baseURL).
			SetTimeout(cfg.Timeout).
			SetRetryCount(cfg.RetryCount).
			SetRetryWaitTime(500*time.Millisecond).
			SetHeader("User-Agent", cfg.UserAgent).
			SetHeader("Accept", "application/json")
	}
	return &Client{
		places:    newHTTP(cfg.BaseURL),
		timezones: newHTTP(cfg.TimezoneURL),
	}
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Reverse looks up the place at a coordinate
func (c *Client) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	var place Place
	resp, err := c.places.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"format": "jsonv2",
			"lat":    coord(lat),
			"lon":    coord(lon),
		}).
		SetResult(&place).
		Get("/reverse")
	if err != nil {
		return nil, fmt.Errorf("reverse geocoding request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("reverse geocoding returned %d", resp.StatusCode())
	}
	if place.Error != "" || place.Address.CountryCode == "" {
		return nil, fmt.Errorf("%w: %s,%s", ErrNotFound, coord(lat), coord(lon))
	}
	return &place, nil
}

// Timezone returns the IANA zone name at a coordinate
func (c *Client) Timezone(ctx context.Context, lat, lon float64) (string, error) {
	var tz timezoneResponse
	resp, err := c.timezones.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"latitude":  coord(lat),
			"longitude": coord(lon),
		}).
		SetResult(&tz).
		Get("/api/timezone/coordinate")
	if err != nil {
		return "", fmt.Errorf("timezone request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("timezone lookup returned %d", resp.StatusCode())
	}
	if tz.TimeZone == "" {
		return "", fmt.Errorf("%w: %s,%s", ErrNotFound, coord(lat), coord(lon))
	}
	return tz.TimeZone, nil
}
