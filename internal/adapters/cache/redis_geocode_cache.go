package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"field-route-service/internal/domain"
)

const (
	geocodeCachePrefix = "cache:geocode:"

	// Street addresses move rarely; a long TTL keeps external geocode
	// calls near zero without growing the keyspace forever.
	GeocodeCacheTTL = 30 * 24 * time.Hour
)

// Redis-backed geocode cache for multi-instance deployments.
type RedisGeocodeCache struct {
	client *redis.Client
}

func NewRedisGeocodeCache(client *redis.Client) *RedisGeocodeCache {
	return &RedisGeocodeCache{client: client}
}

type cachedCoordinates struct {
	Lon float64 `json:"lon"`
	Lat float64 `json:"lat"`
}

// Fetch cached coordinates for the given addresses.
func (c *RedisGeocodeCache) GetMany(ctx context.Context, addresses []string) (map[string]domain.Coordinates, error) {
	uniq := dedupe(addresses)
	if len(uniq) == 0 {
		return map[string]domain.Coordinates{}, nil
	}

	keys := make([]string, len(uniq))
	for i, a := range uniq {
		keys[i] = geocodeCachePrefix + a
	}

	values, err := c.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("get geocode cache: mget: %w", err)
	}

	out := make(map[string]domain.Coordinates, len(uniq))
	for i, v := range values {
		if v == nil {
			continue // cache miss
		}
		raw, ok := v.(string)
		if !ok {
			continue
		}

		var cc cachedCoordinates
		if err := json.Unmarshal([]byte(raw), &cc); err != nil {
			// Corrupt entries behave like misses; the next Put repairs.
			continue
		}
		out[uniq[i]] = domain.Coordinates{Lon: cc.Lon, Lat: cc.Lat}
	}

	return out, nil
}

// Store address -> coordinate mappings in the cache.
func (c *RedisGeocodeCache) PutMany(ctx context.Context, results map[string]domain.Coordinates) error {
	if len(results) == 0 {
		return nil
	}

	pipe := c.client.Pipeline()
	for addr, coords := range results {
		if addr == "" {
			return fmt.Errorf("insert geocode cache: empty address key")
		}

		payload, err := json.Marshal(cachedCoordinates{Lon: coords.Lon, Lat: coords.Lat})
		if err != nil {
			return fmt.Errorf("insert geocode cache addr=%q: marshal: %w", addr, err)
		}
		pipe.Set(ctx, geocodeCachePrefix+addr, payload, GeocodeCacheTTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("insert geocode cache: pipeline exec: %w", err)
	}
	return nil
}
