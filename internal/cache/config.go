package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/bean4896/hessen-custom/internal/catalog"
	"github.com/redis/go-redis/v9"
)

// ConfigStore persists in-progress configurator selections per session.
type ConfigStore interface {
	Load(ctx context.Context, sessionID string) (catalog.Configuration, bool, error)
	Save(ctx context.Context, sessionID string, cfg catalog.Configuration) error
}

// Selections live as long as the cart session cookie.
const configTTL = 90 * 24 * time.Hour

func NewRedisConfigStore(client *redis.Client) *RedisConfigStore {
	return &RedisConfigStore{client: client}
}

type RedisConfigStore struct {
	client *redis.Client
}

func (r *RedisConfigStore) Load(ctx context.Context, sessionID string) (catalog.Configuration, bool, error) {
	var cfg catalog.Configuration

	data, err := r.client.Get(ctx, configKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return cfg, false, nil
	}
	if err != nil {
		return cfg, false, fmt.Errorf("redis get failed: %w", err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, false, fmt.Errorf("unmarshal configuration failed: %w", err)
	}
	return cfg, true, nil
}

func (r *RedisConfigStore) Save(ctx context.Context, sessionID string, cfg catalog.Configuration) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal configuration failed: %w", err)
	}
	if err := r.client.Set(ctx, configKey(sessionID), data, configTTL).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func configKey(sessionID string) string {
	return fmt.Sprintf("hessen_cart:cfg:%s", sessionID)
}
