// Package storage содержит общие для всех хранилищ ошибки и контракты.
package storage

import (
	"errors"

	"github.com/magabrotheeeer/session-auth/internal/models"
)

var (
	// ErrUserNotFound возвращается, когда пользователь не найден.
	ErrUserNotFound = errors.New("user not found")
)

// CheckFunc вызывается хранилищем под блокировкой записи перед добавлением
// пользователя. Ненулевая ошибка отменяет добавление.
type CheckFunc func(existing []models.User) error
