// Package jwt подписывает и проверяет значение сессионной cookie.
//
// В cookie хранится только JWT с идентификатором сессии в поле sub,
// подписанный HS256. Данные сессии живут в хранилище на сервере.
package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims описывает данные, хранящиеся в токене сессии.
type SessionClaims struct {
	jwt.RegisteredClaims // Subject — идентификатор сессии, ExpiresAt — срок жизни cookie
}

// SessionID возвращает идентификатор сессии из токена.
func (c *SessionClaims) SessionID() string {
	return c.Subject
}

// Maker описывает интерфейс для генерации и парсинга токенов сессии.
type Maker interface {
	GenerateToken(sessionID string) (string, error)
	ParseToken(tokenStr string) (*SessionClaims, error)
}

// MakerImpl реализует интерфейс Maker с использованием секретного ключа
// и времени жизни токена (TTL).
type MakerImpl struct {
	secretKey string        // Секретный ключ для подписи токенов.
	tokenTTL  time.Duration // Время жизни токена.
}

// NewJWTMaker создаёт новый экземпляр MakerImpl на основе секретного ключа и TTL.
func NewJWTMaker(secretKey string, ttl time.Duration) *MakerImpl {
	return &MakerImpl{
		secretKey: secretKey,
		tokenTTL:  ttl,
	}
}
