// Package webapp собирает HTTP-приложение: маршруты, сессии, сервисы и сервер.
package webapp

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/session-auth/internal/http/handlers/auth/login"
	"github.com/magabrotheeeer/session-auth/internal/http/handlers/auth/logout"
	"github.com/magabrotheeeer/session-auth/internal/http/handlers/auth/signup"
	"github.com/magabrotheeeer/session-auth/internal/http/handlers/health"
	"github.com/magabrotheeeer/session-auth/internal/http/handlers/home"
	"github.com/magabrotheeeer/session-auth/internal/http/handlers/landing"
	"github.com/magabrotheeeer/session-auth/internal/http/middlewarectx"
	"github.com/magabrotheeeer/session-auth/internal/http/view"
	"github.com/magabrotheeeer/session-auth/internal/metrics"
	services "github.com/magabrotheeeer/session-auth/internal/services/auth"
	"github.com/magabrotheeeer/session-auth/internal/session"
)

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, authService *services.AuthService, manager *session.Manager, pages *view.Renderer, m *metrics.Metrics, gatherer prometheus.Gatherer) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
	)

	r.Get("/healthz", health.New(logger).ServeHTTP)
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(view.Static())))

	// Страницы, работающие с сессией
	r.Group(func(r chi.Router) {
		r.Use(middlewarectx.Session(manager, logger))

		loginHandler := login.New(logger, authService, manager, pages, m)
		signupHandler := signup.New(logger, authService, pages, m)

		r.Get("/", home.New(logger, pages).ServeHTTP)
		r.Get("/login", loginHandler.Form)
		r.Post("/login", loginHandler.ServeHTTP)
		r.Get("/signup", signupHandler.Form)
		r.Post("/signup", signupHandler.ServeHTTP)
		r.Get("/logout", logout.New(logger, manager, m).ServeHTTP)

		// Только для вошедших пользователей
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.RequirePrincipal(logger, "/"))
			r.Get("/landing", landing.New(logger, authService, manager, pages).ServeHTTP)
		})
	})
}
