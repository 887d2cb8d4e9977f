package services

import "errors"

var (
	// ErrMissingField — при регистрации не заполнено одно из полей.
	ErrMissingField = errors.New("missing field")
	// ErrEmailTaken — email уже зарегистрирован.
	ErrEmailTaken = errors.New("email taken")
	// ErrUsernameTaken — имя пользователя уже занято.
	ErrUsernameTaken = errors.New("username taken")
	// ErrPasswordTooLong — пароль длиннее, чем допускает bcrypt (72 байта).
	ErrPasswordTooLong = errors.New("password too long")
	// ErrInvalidCredentials — неизвестный email или неверный пароль.
	// Оба случая намеренно неразличимы снаружи.
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// Message возвращает текст ошибки для показа пользователю.
// Для неизвестных ошибок возвращается общий текст без подробностей.
func Message(err error) string {
	switch {
	case errors.Is(err, ErrMissingField):
		return "All fields are required."
	case errors.Is(err, ErrEmailTaken):
		return "Email is already registered."
	case errors.Is(err, ErrUsernameTaken):
		return "Username already exists."
	case errors.Is(err, ErrPasswordTooLong):
		return "Password is too long."
	case errors.Is(err, ErrInvalidCredentials):
		return "Invalid credentials."
	default:
		return "Something went wrong. Please try again."
	}
}
