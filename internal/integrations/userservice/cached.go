package userservice

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ExistenceChecker проверка существования пользователя
type ExistenceChecker interface {
	Exists(ctx context.Context, userID int64) (bool, error)
}

// CachedClient кэширует в Redis подтвержденное существование пользователей.
// Отрицательные ответы не кэшируются, чтобы только что созданный пользователь был виден сразу.
// При недоступности Redis запрос уходит напрямую в UserService.
type CachedClient struct {
	next   ExistenceChecker
	client *redis.Client
	ttl    time.Duration
	log    Logger
}

// NewCachedClient создает клиент с кэшированием поверх next
func NewCachedClient(next ExistenceChecker, client *redis.Client, ttl time.Duration, log Logger) *CachedClient {
	return &CachedClient{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func existsKey(userID int64) string {
	return fmt.Sprintf("user_exists:%d", userID)
}

// Exists проверяет существование пользователя, сначала заглядывая в кэш
func (c *CachedClient) Exists(ctx context.Context, userID int64) (bool, error) {
	key := existsKey(userID)

	_, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		return true, nil
	case err != redis.Nil:
		c.log.Warn("Exists: redis get failed key=%s: %v", key, err)
	}

	exists, err := c.next.Exists(ctx, userID)
	if err != nil || !exists {
		return exists, err
	}

	if err := c.client.Set(ctx, key, "1", c.ttl).Err(); err != nil {
		c.log.Warn("Exists: redis set failed key=%s: %v", key, err)
	}

	return true, nil
}
