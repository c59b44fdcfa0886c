package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/neexbeast/geoguide/internal/geo"
)

const defaultTTL = 24 * time.Hour

// Cache stores reverse-geocoded location names in Redis, keyed by rounded coordinates.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

type entry struct {
	Name       string    `json:"name"`
	ResolvedAt time.Time `json:"resolved_at"`
}

// NewCache constructs a Cache with a 24-hour TTL.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client, ttl: defaultTTL}
}

// key buckets coordinates to 3 decimals (about 100 m) so nearby requests share an entry.
func key(at geo.Coordinate) string {
	return "location:" + strconv.FormatFloat(geo.Round(at.Lat, 3), 'f', 3, 64) +
		"," + strconv.FormatFloat(geo.Round(at.Lng, 3), 'f', 3, 64)
}

// Get retrieves a location name from cache.
// Returns "", nil on a cache miss (not an error).
func (c *Cache) Get(ctx context.Context, at geo.Coordinate) (string, error) {
	val, err := c.client.Get(ctx, key(at)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("cache get for %s: %w", at, err)
	}

	var e entry
	if err := json.Unmarshal([]byte(val), &e); err != nil {
		return "", fmt.Errorf("unmarshaling cached name for %s: %w", at, err)
	}

	return e.Name, nil
}

// Set stores a location name with the configured TTL. Empty names are not stored.
func (c *Cache) Set(ctx context.Context, at geo.Coordinate, name string) error {
	if name == "" {
		return nil
	}

	b, err := json.Marshal(entry{Name: name, ResolvedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshaling location name for %s: %w", at, err)
	}

	if err := c.client.Set(ctx, key(at), b, c.ttl).Err(); err != nil {
		return fmt.Errorf("cache set for %s: %w", at, err)
	}

	return nil
}

// Ping reports whether Redis is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}
