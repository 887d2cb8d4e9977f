// Package home реализует стартовую страницу для анонимных пользователей.
package home

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/session-auth/internal/http/view"
	"github.com/magabrotheeeer/session-auth/internal/lib/sl"
	"github.com/magabrotheeeer/session-auth/internal/session"
)

// Renderer рендерит HTML-страницу.
type Renderer interface {
	Render(w http.ResponseWriter, status int, name string, data any) error
}

type Handler struct {
	log   *slog.Logger
	pages Renderer
}

func New(log *slog.Logger, pages Renderer) *Handler {
	return &Handler{
		log:   log,
		pages: pages,
	}
}

// ServeHTTP перенаправляет вошедшего пользователя на /landing,
// остальным показывает приглашение войти или зарегистрироваться.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.home"

	if session.PrincipalFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/landing", http.StatusSeeOther)
		return
	}

	if err := h.pages.Render(w, http.StatusOK, view.PageIndex, nil); err != nil {
		h.log.Error("failed to render page",
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
			sl.Err(err),
		)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
