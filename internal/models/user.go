// Package models содержит доменную модель пользователя системы
// и урезанную проекцию, которая хранится в сессии после входа.
package models

// Role — роль пользователя.
type Role string

const (
	// RoleAdmin — администратор, видит список всех пользователей.
	RoleAdmin Role = "admin"
	// RoleUser — обычный пользователь, роль по умолчанию при регистрации.
	RoleUser Role = "user"
)

// Valid сообщает, является ли роль одной из известных.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleUser
}

// User представляет зарегистрированного пользователя системы.
type User struct {
	ID           int64  // Уникальный идентификатор, выдается по порядку
	Username     string // Имя пользователя (уникальное)
	Email        string // Электронная почта, используется для входа (уникальная)
	PasswordHash string // Хэш пароля пользователя
	Role         Role   // Роль пользователя, admin или user
}

// Principal — аутентифицированная личность, сохраняемая в сессии.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin сообщает, является ли владелец сессии администратором.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// PublicUser — данные пользователя, которые можно показывать в представлениях.
// Хэш пароля сюда не попадает.
type PublicUser struct {
	ID       int64
	Username string
	Email    string
	Role     Role
}

// Principal возвращает проекцию пользователя для сессии.
func (u User) Principal() Principal {
	return Principal{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// Public возвращает безопасное для отображения представление пользователя.
func (u User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}
