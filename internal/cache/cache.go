package cache

import (
	"context"
	"encoding/json"
	"time"
)

// Cache stores raw values with a TTL. A missing or expired key is a miss
// with a nil error.
type Cache interface {
	Get(ctx context.Context, key string) (val []byte, hit bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
}

// GetJSON decodes the value at key into dst. A corrupt entry reads as a miss.
func GetJSON(ctx context.Context, c Cache, key string, dst any) (bool, error) {
	b, hit, err := c.Get(ctx, key)
	if err != nil || !hit {
		return false, err
	}
	if err := json.Unmarshal(b, dst); err != nil {
		return false, nil
	}
	return true, nil
}

func SetJSON(ctx context.Context, c Cache, key string, val any, ttl time.Duration) error {
	b, err := json.Marshal(val)
	if err != nil {
		return err
	}
	return c.Set(ctx, key, b, ttl)
}
