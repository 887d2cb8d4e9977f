// Package password реализует функции для безопасного хеширования и проверки паролей.
//
// Hasher.Hash создает bcrypt-хеш пароля для безопасного хранения.
// CompareHash сравнивает исходный bcrypt-хеш с введённым паролем, проверяя их соответствие.
// Hasher ограничивает число одновременных bcrypt-вычислений, чтобы медленное
// хеширование не занимало все процессоры и не тормозило остальные запросы.
package password

import (
	"context"
	"errors"
	"fmt"
	"runtime"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"
)

// DefaultCost — стоимость bcrypt по умолчанию.
const DefaultCost = 10

// ErrTooLong — пароль длиннее 72 байт, bcrypt такой не принимает.
var ErrTooLong = bcrypt.ErrPasswordTooLong

func getHash(password string, cost int) (string, error) {
	const op = "password.getHash"
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return string(hashedPassword), nil
}

// CompareHash сравнивает bcrypt‑хэш с введённым паролем.
//
// Возвращает nil, если пароль соответствует хэшу, иначе — ошибку.
func CompareHash(originalHash, externalPassword string) error {
	const op = "password.CompareHash"
	if err := bcrypt.CompareHashAndPassword([]byte(originalHash), []byte(externalPassword)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Hasher хеширует и проверяет пароли, ограничивая параллелизм bcrypt.
type Hasher struct {
	cost int
	sem  *semaphore.Weighted
}

// NewHasher создает Hasher с указанной стоимостью bcrypt.
// Некорректная стоимость заменяется на DefaultCost.
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{
		cost: cost,
		sem:  semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
	}
}

// Hash возвращает соленый bcrypt-хэш пароля.
func (h *Hasher) Hash(ctx context.Context, plaintext string) (string, error) {
	const op = "password.Hasher.Hash"
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	defer h.sem.Release(1)

	return getHash(plaintext, h.cost)
}

// Verify проверяет пароль по хэшу. Неверный пароль дает (false, nil),
// ошибка возвращается только для поврежденного хэша.
func (h *Hasher) Verify(ctx context.Context, plaintext, digest string) (bool, error) {
	const op = "password.Hasher.Verify"
	if err := h.sem.Acquire(ctx, 1); err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	defer h.sem.Release(1)

	err := CompareHash(digest, plaintext)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("%s: %w", op, err)
	}
}
