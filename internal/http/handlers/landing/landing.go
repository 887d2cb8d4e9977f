// Package landing реализует страницу, доступную только после входа.
//
// Администратор видит список всех пользователей, остальные только себя.
package landing

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/session-auth/internal/http/view"
	"github.com/magabrotheeeer/session-auth/internal/lib/sl"
	"github.com/magabrotheeeer/session-auth/internal/models"
	"github.com/magabrotheeeer/session-auth/internal/session"
)

// Service отдает список пользователей для администратора.
type Service interface {
	ListUsers(ctx context.Context) ([]models.PublicUser, error)
}

// Sessions продлевает срок жизни сессии.
type Sessions interface {
	Touch(ctx context.Context, w http.ResponseWriter, sess *session.Session) error
}

// Renderer рендерит HTML-страницу.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

type Handler struct {
	log      *slog.Logger
	users    Service
	sessions Sessions
	pages    Renderer
}

func New(log *slog.Logger, users Service, sessions Sessions, pages Renderer) *Handler {
	return &Handler{
		log:      log,
		users:    users,
		sessions: sessions,
		pages:    pages,
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.landing"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := session.FromContext(r.Context())
	if !ok || !sess.Authenticated() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	principal := sess.Principal

	data := view.LandingPage{
		Username: principal.Username,
		Role:     string(principal.Role),
	}
	if principal.IsAdmin() {
		users, err := h.users.ListUsers(r.Context())
		if err != nil {
			log.Error("failed to list users", sl.Err(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}
		data.Users = users
	}

	if err := h.sessions.Touch(r.Context(), w, sess); err != nil {
		log.Warn("failed to extend session", sl.Err(err))
	}

	if err := h.pages.Render(w, http.StatusOK, view.PageLanding, data); err != nil {
		log.Error("failed to render page", sl.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
