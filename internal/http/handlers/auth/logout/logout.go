// Package logout реализует HTTP-обработчик выхода пользователя.
package logout

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/session-auth/internal/lib/sl"
	"github.com/magabrotheeeer/session-auth/internal/metrics"
	"github.com/magabrotheeeer/session-auth/internal/session"
)

// Sessions уничтожает сессию.
type Sessions interface {
	Clear(ctx context.Context, w http.ResponseWriter, sess *session.Session) error
}

// Handler обрабатывает выход пользователя.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	metrics  *metrics.Metrics
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Sessions, m *metrics.Metrics) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		metrics:  m,
	}
}

// ServeHTTP уничтожает сессию целиком и перенаправляет на стартовую страницу.
// Cookie сбрасывается даже если удалить запись из хранилища не удалось.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	authenticated := sess.Authenticated()
	if err := h.sessions.Clear(r.Context(), w, sess); err != nil {
		log.Error("failed to clear session", sl.Err(err))
	} else if authenticated {
		h.metrics.Logouts.Inc()
		log.Info("user logged out")
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}
