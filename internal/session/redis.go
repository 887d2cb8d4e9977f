package session

import (
	"context"
	"fmt"
	"time"

	"github.com/magabrotheeeer/session-auth/internal/cache"
)

const redisKeyPrefix = "session:"

// RedisStore хранит сессии в redis в виде JSON с TTL.
type RedisStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewRedisStore создает хранилище поверх подключенного кэша.
func NewRedisStore(c *cache.Cache, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: c, ttl: ttl}
}

// Get читает сессию из redis.
func (s *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	const op = "session.RedisStore.Get"
	var sess Session
	found, err := s.cache.Get(ctx, redisKeyPrefix+id, &sess)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, ErrNotFound
	}
	return &sess, nil
}

// Save записывает сессию и обновляет её TTL.
func (s *RedisStore) Save(ctx context.Context, sess *Session) error {
	const op = "session.RedisStore.Save"
	if err := s.cache.Set(ctx, redisKeyPrefix+sess.ID, sess, s.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Delete удаляет сессию из redis.
func (s *RedisStore) Delete(ctx context.Context, id string) error {
	const op = "session.RedisStore.Delete"
	if err := s.cache.Invalidate(ctx, redisKeyPrefix+id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
