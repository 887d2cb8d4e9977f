// Package session хранит серверные сессии пользователей.
//
// Клиент получает cookie с подписанным идентификатором сессии, сами данные
// (аутентифицированный Principal) лежат в Store: в памяти процесса или в redis.
// Manager загружает сессию для запроса, сохраняет Principal после входа и
// полностью уничтожает сессию при выходе.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/magabrotheeeer/session-auth/internal/models"
)

// ErrNotFound возвращается хранилищем, если сессии нет или она истекла.
var ErrNotFound = errors.New("session not found")

// Session — данные одной клиентской сессии.
type Session struct {
	ID        string            `json:"id"`
	Principal *models.Principal `json:"principal,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Authenticated сообщает, есть ли в сессии Principal.
func (s *Session) Authenticated() bool {
	return s != nil && s.Principal != nil
}

// Store описывает хранилище сессий.
type Store interface {
	// Get возвращает сессию по идентификатору или ErrNotFound.
	Get(ctx context.Context, id string) (*Session, error)
	// Save сохраняет сессию, продлевая её время жизни.
	Save(ctx context.Context, sess *Session) error
	// Delete удаляет сессию. Отсутствие сессии ошибкой не считается.
	Delete(ctx context.Context, id string) error
}

type ctxKey struct{}

// NewContext возвращает контекст с сессией.
func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, sess)
}

// FromContext достает сессию из контекста.
func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(ctxKey{}).(*Session)
	return sess, ok && sess != nil
}

// PrincipalFromContext возвращает Principal текущей сессии или nil для анонимного запроса.
func PrincipalFromContext(ctx context.Context) *models.Principal {
	sess, ok := FromContext(ctx)
	if !ok {
		return nil
	}
	return sess.Principal
}
