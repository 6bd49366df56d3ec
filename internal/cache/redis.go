package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"flightdash/config"
	"flightdash/internal/service/dashboard"
)

// RedisCache stores computed dashboard views and filter options as JSON.
// Entries expire by TTL; the worker re-warms the defaults before they do.
type RedisCache struct {
	client     *redis.Client
	viewTTL    time.Duration
	optionsTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, viewTTL, optionsTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:     redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		viewTTL:    viewTTL,
		optionsTTL: optionsTTL,
	}
}

func (c *RedisCache) GetView(ctx context.Context, key string) (*dashboard.View, error) {
	data, err := c.client.Get(ctx, viewKey(key)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var view dashboard.View
	if err := json.Unmarshal(data, &view); err != nil {
		return nil, err
	}
	return &view, nil
}

func (c *RedisCache) SetView(ctx context.Context, key string, view *dashboard.View) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, viewKey(key), payload, c.viewTTL).Err()
}

func (c *RedisCache) GetOptions(ctx context.Context) (*dashboard.FilterOptions, error) {
	data, err := c.client.Get(ctx, optionsKey()).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var options dashboard.FilterOptions
	if err := json.Unmarshal(data, &options); err != nil {
		return nil, err
	}
	return &options, nil
}

func (c *RedisCache) SetOptions(ctx context.Context, options *dashboard.FilterOptions) error {
	payload, err := json.Marshal(options)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, optionsKey(), payload, c.optionsTTL).Err()
}

func viewKey(criteria string) string {
	return fmt.Sprintf("cache:view:%s", criteria)
}

func optionsKey() string {
	return "cache:options"
}

var _ dashboard.Cache = (*RedisCache)(nil)
