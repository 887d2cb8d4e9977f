package signup

import (
	"context"
	"net/http"

	"github.com/magabrotheeeer/session-auth/internal/models"
)

// Service описывает регистрацию пользователя.
type Service interface {
	Signup(ctx context.Context, username, email, password string) (*models.User, error)
}

// Renderer рендерит HTML-страницу.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}
