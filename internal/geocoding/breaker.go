package geocoding

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/jengzang/location-history-go/internal/logging"
	"github.com/jengzang/location-history-go/internal/metrics"
)

// Resolver resolves coordinates into a place and a timezone
type Resolver interface {
	Reverse(ctx context.Context, lat, lon float64) (*Place, error)
	Timezone(ctx context.Context, lat, lon float64) (string, error)
}

var _ Resolver = (*Client)(nil)

// BreakerSettings tunes the circuit breakers around each service
type BreakerSettings struct {
	MinRequests  uint32        // requests in the window before the breaker may open
	FailureRatio float64       // open at or above this ratio
	Interval     time.Duration // counts reset after this long while closed
	Timeout      time.Duration // open state lasts this long
}

// DefaultBreakerSettings returns the settings used by the server
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MinRequests:  5,
		FailureRatio: 0.6,
		Interval:     time.Minute,
		Timeout:      2 * time.Minute,
	}
}

// BreakerClient stops calling a service that keeps failing. A coordinate
// without a result does not count as a failure.
type BreakerClient struct {
	next      Resolver
	places    *gobreaker.CircuitBreaker[*Place]
	timezones *gobreaker.CircuitBreaker[string]
}

// NewBreakerClient wraps next with one breaker per service
func NewBreakerClient(next Resolver, s BreakerSettings) *BreakerClient {
	return &BreakerClient{
		next:      next,
		places:    gobreaker.NewCircuitBreaker[*Place](breakerSettings("nominatim", s)),
		timezones: gobreaker.NewCircuitBreaker[string](breakerSettings("timezone", s)),
	}
}

func breakerSettings(name string, s BreakerSettings) gobreaker.Settings {
	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)

	return gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotFound) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.With("geocoding").Warn().
				Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(float64(to))
		},
	}
}

// Reverse looks up the place at a coordinate
func (b *BreakerClient) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	place, err := b.places.Execute(func() (*Place, error) {
		return b.next.Reverse(ctx, lat, lon)
	})
	observe("nominatim", err)
	return place, err
}

// Timezone returns the IANA zone name at a coordinate
func (b *BreakerClient) Timezone(ctx context.Context, lat, lon float64) (string, error) {
	tz, err := b.timezones.Execute(func() (string, error) {
		return b.next.Timezone(ctx, lat, lon)
	})
	observe("timezone", err)
	return tz, err
}

func observe(service string, err error) {
	result := "success"
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		result = "not_found"
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "rejected"
	default:
		result = "failure"
	}
	metrics.GeocodingRequests.WithLabelValues(service, result).Inc()
}
