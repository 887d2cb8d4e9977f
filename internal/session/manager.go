package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/magabrotheeeer/session-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/session-auth/internal/lib/sl"
	"github.com/magabrotheeeer/session-auth/internal/models"
)

// Options — параметры cookie сессии.
type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager связывает cookie клиента с сессией в хранилище.
type Manager struct {
	store Store
	maker jwt.Maker
	opts  Options
	log   *slog.Logger
	now   func() time.Time
}

// NewManager создает менеджер сессий.
func NewManager(store Store, maker jwt.Maker, opts Options, log *slog.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = "session_id"
	}
	return &Manager{
		store: store,
		maker: maker,
		opts:  opts,
		log:   log,
		now:   time.Now,
	}
}

// Load возвращает сессию запроса. Если cookie нет, она повреждена или
// сессия истекла, возвращается новая анонимная сессия, ещё не сохраненная в хранилище.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	const op = "session.Manager.Load"

	cookie, err := r.Cookie(m.opts.CookieName)
	if err != nil || cookie.Value == "" {
		return m.newSession(), nil
	}

	claims, err := m.maker.ParseToken(cookie.Value)
	if err != nil {
		m.log.Debug("discarding invalid session cookie", slog.String("op", op), sl.Err(err))
		return m.newSession(), nil
	}

	sess, err := m.store.Get(r.Context(), claims.SessionID())
	switch {
	case errors.Is(err, ErrNotFound):
		return m.newSession(), nil
	case err != nil:
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return sess, nil
}

// SetPrincipal записывает Principal в сессию после успешного входа.
// Идентификатор сессии при этом меняется, старая запись удаляется.
func (m *Manager) SetPrincipal(ctx context.Context, w http.ResponseWriter, sess *Session, p models.Principal) error {
	const op = "session.Manager.SetPrincipal"

	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	sess.ID = uuid.NewString()
	sess.CreatedAt = m.now()
	sess.Principal = &p

	if err := m.commit(ctx, w, sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Touch сохраняет аутентифицированную сессию заново, продлевая её срок жизни.
func (m *Manager) Touch(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	const op = "session.Manager.Touch"
	if !sess.Authenticated() {
		return nil
	}
	if err := m.commit(ctx, w, sess); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Clear уничтожает сессию целиком: удаляет запись из хранилища и
// просит клиента удалить cookie. Переданная сессия становится анонимной.
func (m *Manager) Clear(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	const op = "session.Manager.Clear"

	err := m.store.Delete(ctx, sess.ID)

	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	sess.Principal = nil
	sess.ID = uuid.NewString()

	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (m *Manager) commit(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if err := m.store.Save(ctx, sess); err != nil {
		return err
	}
	token, err := m.maker.GenerateToken(sess.ID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

func (m *Manager) newSession() *Session {
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: m.now(),
	}
}
