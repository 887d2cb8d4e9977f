package session

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore хранит сессии в памяти процесса в LRU-кэше с истечением.
// При переполнении вытесняются самые давно использованные сессии.
type MemoryStore struct {
	cache *expirable.LRU[string, Session]
}

// NewMemoryStore создает хранилище на size сессий с временем жизни ttl.
func NewMemoryStore(size int, ttl time.Duration) *MemoryStore {
	if size <= 0 {
		size = 10000
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, Session](size, nil, ttl),
	}
}

// Get возвращает копию сессии.
func (m *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	const op = "session.MemoryStore.Get"
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	sess, ok := m.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return clone(&sess), nil
}

// Save сохраняет копию сессии.
func (m *MemoryStore) Save(ctx context.Context, sess *Session) error {
	const op = "session.MemoryStore.Save"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.cache.Add(sess.ID, *clone(sess))
	return nil
}

// Delete удаляет сессию.
func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	const op = "session.MemoryStore.Delete"
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	m.cache.Remove(id)
	return nil
}

// Len возвращает количество живых сессий.
func (m *MemoryStore) Len() int {
	return m.cache.Len()
}

func clone(sess *Session) *Session {
	c := *sess
	if sess.Principal != nil {
		p := *sess.Principal
		c.Principal = &p
	}
	return &c
}
