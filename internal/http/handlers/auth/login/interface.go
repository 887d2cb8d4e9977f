package login

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/session-auth/internal/models"
	"github.com/magabrotheeeer/session-auth/internal/session"
)

// Service описывает проверку учетных данных.
type Service interface {
	Login(ctx context.Context, email, password string) (*models.Principal, error)
}

// Sessions записывает пользователя в сессию после успешного входа.
type Sessions interface {
	SetPrincipal(ctx context.Context, w http.ResponseWriter, sess *session.Session, p models.Principal) error
}

// Renderer рендерит HTML-страницу.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}
