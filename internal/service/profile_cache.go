package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"membership-api/internal/domain"
)

// ProfileCache guarda perfiles ya leidos para aliviar al store en GET /profile.
type ProfileCache interface {
	Get(ctx context.Context, accountID string) (domain.Profile, bool)
	Set(ctx context.Context, profile domain.Profile)
	Delete(ctx context.Context, accountID string)
}

type redisKVClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

type redisProfileCache struct {
	client redisKVClient
	ttl    time.Duration
	prefix string
}

// NewRedisProfileCache devuelve nil si no hay cliente; los errores de redis se ignoran (fail-open).
func NewRedisProfileCache(client *redis.Client, ttl time.Duration) ProfileCache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &redisProfileCache{
		client: client,
		ttl:    ttl,
		prefix: "account:profile:",
	}
}

func (c *redisProfileCache) Get(ctx context.Context, accountID string) (domain.Profile, bool) {
	if strings.TrimSpace(accountID) == "" {
		return domain.Profile{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	raw, err := c.client.Get(ctx, c.prefix+accountID).Bytes()
	if err != nil {
		return domain.Profile{}, false
	}
	var profile domain.Profile
	if err := json.Unmarshal(raw, &profile); err != nil {
		return domain.Profile{}, false
	}
	return profile, true
}

func (c *redisProfileCache) Set(ctx context.Context, profile domain.Profile) {
	if strings.TrimSpace(profile.ID) == "" {
		return
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = c.client.Set(ctx, c.prefix+profile.ID, payload, c.ttl).Err()
}

func (c *redisProfileCache) Delete(ctx context.Context, accountID string) {
	if strings.TrimSpace(accountID) == "" {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 500*time.Millisecond)
	defer cancel()
	_ = c.client.Del(ctx, c.prefix+accountID).Err()
}
