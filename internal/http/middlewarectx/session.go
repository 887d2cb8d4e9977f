// Package middlewarectx содержит HTTP middleware для работы с сессией запроса.
//
// Session загружает серверную сессию по cookie и кладет её в контекст запроса.
// RequirePrincipal пропускает дальше только аутентифицированные запросы,
// анонимных перенаправляет на стартовую страницу.
package middlewarectx

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/session-auth/internal/lib/sl"
	"github.com/magabrotheeeer/session-auth/internal/session"
)

// Sessions описывает загрузку и продление сессий.
type Sessions interface {
	Load(r *http.Request) (*session.Session, error)
}

// Session возвращает middleware, который загружает сессию запроса в контекст.
func Session(sessions Sessions, log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.Session"

			sess, err := sessions.Load(r)
			if err != nil {
				log.Error("failed to load session",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					sl.Err(err),
				)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			next.ServeHTTP(w, r.WithContext(session.NewContext(r.Context(), sess)))
		})
	}
}

// RequirePrincipal возвращает middleware, который перенаправляет анонимные
// запросы на redirectTo.
func RequirePrincipal(log *slog.Logger, redirectTo string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			const op = "middlewarectx.RequirePrincipal"

			if session.PrincipalFromContext(r.Context()) == nil {
				log.Info("anonymous request, redirecting",
					slog.String("op", op),
					slog.String("request_id", middleware.GetReqID(r.Context())),
					slog.String("path", r.URL.Path),
				)
				http.Redirect(w, r, redirectTo, http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
