package geocoding

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/jengzang/location-history-go/internal/logging"
)

// Key prefixes for the lookup cache
const (
	placeKeyPrefix    = "place:"
	timezoneKeyPrefix = "tz:"
)

// OpenCache opens the badger lookup cache. An empty dir keeps it in memory.
func OpenCache(dir string) (*badger.DB, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open geocoding cache: %w", err)
	}
	return db, nil
}

// CachedClient remembers lookups by rounded coordinate, so returning to a
// place does not hit the public services again
type CachedClient struct {
	next Resolver
	db   *badger.DB
	ttl  time.Duration
}

// NewCachedClient wraps next with a cache whose entries expire after ttl
func NewCachedClient(next Resolver, db *badger.DB, ttl time.Duration) *CachedClient {
	return &CachedClient{next: next, db: db, ttl: ttl}
}

func cacheKey(prefix string, lat, lon float64) []byte {
	return []byte(prefix + coord(lat) + "," + coord(lon))
}

// Reverse looks up the place at a coordinate
func (c *CachedClient) Reverse(ctx context.Context, lat, lon float64) (*Place, error) {
	key := cacheKey(placeKeyPrefix, lat, lon)

	var place Place
	if ok := c.get(key, &place); ok {
		return &place, nil
	}

	found, err := c.next.Reverse(ctx, lat, lon)
	if err != nil {
		return nil, err
	}
	c.set(key, found)
	return found, nil
}

// Timezone returns the IANA zone name at a coordinate
func (c *CachedClient) Timezone(ctx context.Context, lat, lon float64) (string, error) {
	key := cacheKey(timezoneKeyPrefix, lat, lon)

	var tz string
	if ok := c.get(key, &tz); ok {
		return tz, nil
	}

	tz, err := c.next.Timezone(ctx, lat, lon)
	if err != nil {
		return "", err
	}
	c.set(key, tz)
	return tz, nil
}

// get decodes a cached value. Cache errors are logged and read as a miss.
func (c *CachedClient) get(key []byte, v any) bool {
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.With("geocoding").Warn().Err(err).Bytes("key", key).Msg("cache read failed")
		}
		return false
	}
	return true
}

func (c *CachedClient) set(key []byte, v any) {
	data, err := json.Marshal(v)
	if err == nil {
		err = c.db.Update(func(txn *badger.Txn) error {
			return txn.SetEntry(badger.NewEntry(key, data).WithTTL(c.ttl))
		})
	}
	if err != nil {
		logging.With("geocoding").Warn().Err(err).Bytes("key", key).Msg("cache write failed")
	}
}
