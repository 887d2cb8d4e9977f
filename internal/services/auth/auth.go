// Package services содержит логику бизнес-уровня для регистрации и входа пользователей.
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/session-auth/internal/lib/password"
	"github.com/magabrotheeeer/session-auth/internal/lib/sl"
	"github.com/magabrotheeeer/session-auth/internal/models"
	"github.com/magabrotheeeer/session-auth/internal/storage"
)

// UserRepository описывает контракт хранилища пользователей.
type UserRepository interface {
	// FindByEmail возвращает пользователя по email или storage.ErrUserNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByUsername возвращает пользователя по имени или storage.ErrUserNotFound.
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	// Create атомарно выполняет check и добавляет пользователя, присваивая ID.
	Create(ctx context.Context, user models.User, check storage.CheckFunc) (models.User, error)
	// List возвращает всех пользователей в порядке регистрации.
	List(ctx context.Context) ([]models.User, error)
}

// PasswordHasher хеширует и проверяет пароли.
type PasswordHasher interface {
	Hash(ctx context.Context, plaintext string) (string, error)
	Verify(ctx context.Context, plaintext, digest string) (bool, error)
}

// EventPublisher публикует доменные события о пользователях.
type EventPublisher interface {
	PublishUserRegistered(ctx context.Context, user models.User) error
}

// Seed описывает пользователя, создаваемого при старте.
type Seed struct {
	Username string
	Email    string
	Password string
	Role     models.Role
}

// AuthService отвечает за регистрацию и проверку учетных данных.
type AuthService struct {
	users     UserRepository
	hasher    PasswordHasher
	publisher EventPublisher
	log       *slog.Logger

	// dummyHash сравнивается при входе с неизвестным email,
	// чтобы время ответа не выдавало существование адреса.
	dummyHash string
}

// NewAuthService создает новый экземпляр AuthService.
// publisher может быть nil, тогда события не публикуются.
func NewAuthService(ctx context.Context, users UserRepository, hasher PasswordHasher, publisher EventPublisher, log *slog.Logger) (*AuthService, error) {
	const op = "services.auth.NewAuthService"
	dummy, err := hasher.Hash(ctx, "dummy-password-for-timing")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &AuthService{
		users:     users,
		hasher:    hasher,
		publisher: publisher,
		log:       log,
		dummyHash: dummy,
	}, nil
}

// Signup регистрирует нового пользователя с ролью "user".
func (s *AuthService) Signup(ctx context.Context, username, email, plaintext string) (*models.User, error) {
	const op = "services.auth.Signup"

	if username == "" || email == "" || plaintext == "" {
		return nil, ErrMissingField
	}

	// Быстрая проверка до дорогого хеширования. Окончательная проверка
	// повторяется в Create под блокировкой хранилища.
	if err := s.checkAvailable(ctx, username, email); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(ctx, plaintext)
	if err != nil {
		if errors.Is(err, password.ErrTooLong) {
			return nil, ErrPasswordTooLong
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.Create(ctx, models.User{
		Username:     username,
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleUser,
	}, uniqueCheck(username, email))
	if err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.publisher != nil {
		if err := s.publisher.PublishUserRegistered(ctx, user); err != nil {
			s.log.Warn("failed to publish user registered event",
				slog.String("op", op), slog.Int64("user_id", user.ID), sl.Err(err))
		}
	}

	return &user, nil
}

// Login проверяет email и пароль и возвращает проекцию пользователя для сессии.
// Для неизвестного email и неверного пароля возвращается одна и та же ошибка.
func (s *AuthService) Login(ctx context.Context, email, plaintext string) (*models.Principal, error) {
	const op = "services.auth.Login"

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, storage.ErrUserNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if _, err := s.hasher.Verify(ctx, plaintext, s.dummyHash); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		return nil, ErrInvalidCredentials
	}

	ok, err := s.hasher.Verify(ctx, plaintext, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	principal := user.Principal()
	return &principal, nil
}

// ListUsers возвращает всех пользователей без хэшей паролей.
func (s *AuthService) ListUsers(ctx context.Context) ([]models.PublicUser, error) {
	const op = "services.auth.ListUsers"
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	result := make([]models.PublicUser, 0, len(users))
	for _, u := range users {
		result = append(result, u.Public())
	}
	return result, nil
}

// SeedUsers создает стартовых пользователей. Уже существующие пропускаются.
func (s *AuthService) SeedUsers(ctx context.Context, seeds []Seed) error {
	const op = "services.auth.SeedUsers"
	for _, seed := range seeds {
		role := seed.Role
		if !role.Valid() {
			return fmt.Errorf("%s: unknown role %q for %s", op, role, seed.Username)
		}
		if seed.Username == "" || seed.Email == "" || seed.Password == "" {
			return fmt.Errorf("%s: %w", op, ErrMissingField)
		}

		hashed, err := s.hasher.Hash(ctx, seed.Password)
		if err != nil {
			return fmt.Errorf("%s: %w", op, err)
		}
		user, err := s.users.Create(ctx, models.User{
			Username:     seed.Username,
			Email:        seed.Email,
			PasswordHash: hashed,
			Role:         role,
		}, uniqueCheck(seed.Username, seed.Email))
		switch {
		case errors.Is(err, ErrEmailTaken), errors.Is(err, ErrUsernameTaken):
			s.log.Info("seed user already exists, skipping", slog.String("username", seed.Username))
			continue
		case err != nil:
			return fmt.Errorf("%s: %w", op, err)
		}
		s.log.Info("seed user created",
			slog.Int64("id", user.ID), slog.String("username", user.Username), slog.String("role", string(user.Role)))
	}
	return nil
}

func (s *AuthService) checkAvailable(ctx context.Context, username, email string) error {
	const op = "services.auth.checkAvailable"

	_, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return ErrEmailTaken
	case !errors.Is(err, storage.ErrUserNotFound):
		return fmt.Errorf("%s: %w", op, err)
	}

	_, err = s.users.FindByUsername(ctx, username)
	switch {
	case err == nil:
		return ErrUsernameTaken
	case !errors.Is(err, storage.ErrUserNotFound):
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// uniqueCheck возвращает проверку уникальности email и имени.
// Email проверяется первым, как и в checkAvailable.
func uniqueCheck(username, email string) storage.CheckFunc {
	return func(existing []models.User) error {
		for _, u := range existing {
			if u.Email == email {
				return ErrEmailTaken
			}
		}
		for _, u := range existing {
			if u.Username == username {
				return ErrUsernameTaken
			}
		}
		return nil
	}
}
