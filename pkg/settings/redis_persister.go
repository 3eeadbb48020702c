package settings

import (
	"context"

	"github.com/redis/go-redis/v9"

	"readyroom/pkg/cache"
)

// StorageKey matches the key the original settings panel stored its blob
// under, so an existing deployment keeps its saved settings.
const StorageKey = "shipComputerSettings"

// RedisPersister stores the settings blob as a single value in redis.
type RedisPersister struct {
	cache *cache.Cache
	key   string
}

func NewRedisPersister(c *cache.Cache) *RedisPersister {
	return &RedisPersister{cache: c, key: c.Key(StorageKey)}
}

func (p *RedisPersister) Load(ctx context.Context) ([]byte, error) {
	data, err := p.cache.Get(ctx, p.key)
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return []byte(data), nil
}

func (p *RedisPersister) Save(ctx context.Context, data []byte) error {
	return p.cache.Set(ctx, p.key, string(data), 0)
}
