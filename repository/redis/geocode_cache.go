package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/fastygo/progression/domain"
	"github.com/fastygo/progression/repository"
)

type geocodeCache struct {
	client *redislib.Client
	prefix string
	ttl    time.Duration
}

// NewGeocodeCache creates a Redis-backed postcode cache.
func NewGeocodeCache(client *redislib.Client, ttl time.Duration) repository.GeocodeCache {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &geocodeCache{
		client: client,
		prefix: "geocode:",
		ttl:    ttl,
	}
}

func (c *geocodeCache) Get(ctx context.Context, postcode string) (*domain.Coordinates, error) {
	result, err := c.client.Get(ctx, c.key(postcode)).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrGeocodeCacheMiss
		}
		return nil, err
	}

	var coords domain.Coordinates
	if err := json.Unmarshal([]byte(result), &coords); err != nil {
		return nil, err
	}
	return &coords, nil
}

func (c *geocodeCache) Save(ctx context.Context, postcode string, coords domain.Coordinates) error {
	if postcode == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(coords)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(postcode), payload, c.ttl).Err()
}

func (c *geocodeCache) key(postcode string) string {
	return fmt.Sprintf("%s%s", c.prefix, postcode)
}
