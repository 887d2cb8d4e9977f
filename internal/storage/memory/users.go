// Package memory реализует хранилище пользователей в памяти процесса.
//
// Пользователи хранятся в срезе в порядке добавления, поэтому порядок совпадает
// с порядком идентификаторов. Поиск линейный, сравнение строк точное и
// чувствительное к регистру. Запись выполняется под единственной блокировкой,
// проверка уникальности (CheckFunc) выполняется под той же блокировкой.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/magabrotheeeer/session-auth/internal/models"
	"github.com/magabrotheeeer/session-auth/internal/storage"
)

// Storage хранит пользователей в памяти.
type Storage struct {
	mu    sync.RWMutex
	users []models.User
}

// New создает пустое хранилище.
func New() *Storage {
	return &Storage{}
}

// FindByEmail возвращает пользователя с точно совпадающим email.
func (s *Storage) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.memory.FindByEmail"
	return s.find(ctx, op, func(u models.User) bool { return u.Email == email })
}

// FindByUsername возвращает пользователя с точно совпадающим username.
func (s *Storage) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	const op = "storage.memory.FindByUsername"
	return s.find(ctx, op, func(u models.User) bool { return u.Username == username })
}

func (s *Storage) find(ctx context.Context, op string, match func(models.User) bool) (*models.User, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, u := range s.users {
		if match(u) {
			found := u
			return &found, nil
		}
	}
	return nil, fmt.Errorf("%s: %w", op, storage.ErrUserNotFound)
}

// Create добавляет пользователя в конец списка и присваивает ему ID = количество + 1.
// Если check возвращает ошибку, хранилище не изменяется.
func (s *Storage) Create(ctx context.Context, user models.User, check storage.CheckFunc) (models.User, error) {
	const op = "storage.memory.Create"
	select {
	case <-ctx.Done():
		return models.User{}, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if check != nil {
		if err := check(s.users); err != nil {
			return models.User{}, err
		}
	}

	user.ID = int64(len(s.users) + 1)
	s.users = append(s.users, user)
	return user, nil
}

// List возвращает копию всех пользователей в порядке добавления.
func (s *Storage) List(ctx context.Context) ([]models.User, error) {
	const op = "storage.memory.List"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]models.User, len(s.users))
	copy(result, s.users)
	return result, nil
}

// Count возвращает количество пользователей.
func (s *Storage) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
