package geocoding

import (
	"context"
	"errors"
	"testing"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	place     *Place
	timezone  string
	err       error
	reverses  int
	timezones int
}

func (r *countingResolver) Reverse(context.Context, float64, float64) (*Place, error) {
	r.reverses++
	if r.err != nil {
		return nil, r.err
	}
	return r.place, nil
}

func (r *countingResolver) Timezone(context.Context, float64, float64) (string, error) {
	r.timezones++
	if r.err != nil {
		return "", r.err
	}
	return r.timezone, nil
}

func testPlace() *Place {
	p := &Place{DisplayName: "Goa, India"}
	p.Address.State = "Goa"
	p.Address.CountryCode = "in"
	return p
}

func TestCachedClient(t *testing.T) {
	db, err := OpenCache("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	next := &countingResolver{place: testPlace(), timezone: "Asia/Kolkata"}
	c := NewCachedClient(next, db, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		place, err := c.Reverse(ctx, 15.3, 74.12)
		require.NoError(t, err)
		assert.Equal(t, "Goa", place.Address.State)

		tz, err := c.Timezone(ctx, 15.3, 74.12)
		require.NoError(t, err)
		assert.Equal(t, "Asia/Kolkata", tz)
	}
	assert.Equal(t, 1, next.reverses)
	assert.Equal(t, 1, next.timezones)

	_, err = c.Reverse(ctx, 15.31, 74.12)
	require.NoError(t, err)
	assert.Equal(t, 2, next.reverses)
}

func TestCachedClient_ErrorsAreNotCached(t *testing.T) {
	db, err := OpenCache("")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	next := &countingResolver{err: ErrNotFound}
	c := NewCachedClient(next, db, time.Hour)

	for i := 0; i < 2; i++ {
		_, err := c.Reverse(context.Background(), 0, 0)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 2, next.reverses)
}

func TestBreakerClient_OpensOnFailures(t *testing.T) {
	boom := errors.New("503")
	next := &countingResolver{err: boom}
	b := NewBreakerClient(next, BreakerSettings{
		MinRequests:  3,
		FailureRatio: 0.5,
		Interval:     time.Minute,
		Timeout:      time.Minute,
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := b.Reverse(ctx, 1, 1)
		assert.ErrorIs(t, err, boom)
	}

	_, err := b.Reverse(ctx, 1, 1)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.Equal(t, 3, next.reverses)

	// the timezone breaker is separate
	_, err = b.Timezone(ctx, 1, 1)
	assert.ErrorIs(t, err, boom)
}

func TestBreakerClient_NotFoundKeepsCircuitClosed(t *testing.T) {
	next := &countingResolver{err: ErrNotFound}
	b := NewBreakerClient(next, BreakerSettings{
		MinRequests:  1,
		FailureRatio: 0.1,
		Interval:     time.Minute,
		Timeout:      time.Minute,
	})

	for i := 0; i < 5; i++ {
		_, err := b.Reverse(context.Background(), 0, 0)
		assert.ErrorIs(t, err, ErrNotFound)
	}
	assert.Equal(t, 5, next.reverses)
}
