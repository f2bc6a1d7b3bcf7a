package services

import (
	"context"
	"fmt"

	goredis "github.com/redis/go-redis/v9"

	redisInfra "surgicare-core/internal/infrastructure/database/redis"
)

// CollectionCache est le cache local durable vu par le moteur de synchronisation :
// miroir en écriture directe du dernier état distant connu, fallback hors-ligne.
type CollectionCache interface {
	Read(ctx context.Context, pattern string) ([]byte, bool, error)
	Write(ctx context.Context, pattern string, data []byte) error
}

// RedisCollectionCache adosse le cache durable aux clés de backup Redis
type RedisCollectionCache struct {
	redis *redisInfra.Client
}

func NewRedisCollectionCache(redis *redisInfra.Client) *RedisCollectionCache {
	return &RedisCollectionCache{redis: redis}
}

// Read récupère le backup d'une collection. found=false si aucune entrée.
func (c *RedisCollectionCache) Read(ctx context.Context, pattern string) ([]byte, bool, error) {
	value, err := c.redis.GetWithPattern(ctx, pattern)
	if err == goredis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("cache read failed for %s: %w", pattern, err)
	}
	return []byte(value), true, nil
}

// Write remplace intégralement le backup d'une collection (pas d'expiration)
func (c *RedisCollectionCache) Write(ctx context.Context, pattern string, data []byte) error {
	if err := c.redis.SetWithPattern(ctx, pattern, string(data)); err != nil {
		return fmt.Errorf("cache write failed for %s: %w", pattern, err)
	}
	return nil
}
