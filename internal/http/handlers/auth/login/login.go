// Package login реализует HTTP-обработчики формы входа.
//
// GET /login отдает форму (с сообщением об успешной регистрации, если
// задан параметр success), POST /login проверяет email и пароль через Service.
// При успехе Principal записывается в сессию и клиент перенаправляется на
// /landing; при ошибке форма рендерится заново с сообщением.
package login

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/ajg/form"
	"github.com/go-chi/chi/middleware"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/session-auth/internal/http/response"
	"github.com/magabrotheeeer/session-auth/internal/http/view"
	"github.com/magabrotheeeer/session-auth/internal/lib/sl"
	"github.com/magabrotheeeer/session-auth/internal/metrics"
	services "github.com/magabrotheeeer/session-auth/internal/services/auth"
	"github.com/magabrotheeeer/session-auth/internal/session"
)

// SuccessMessage показывается на форме входа после успешной регистрации.
const SuccessMessage = "User successfully registered! Please log in."

// Request — поля формы входа.
type Request struct {
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Handler обрабатывает вход пользователя.
type Handler struct {
	log      *slog.Logger
	auth     Service
	sessions Sessions
	pages    Renderer
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service, sessions Sessions, pages Renderer, m *metrics.Metrics) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		sessions: sessions,
		pages:    pages,
		metrics:  m,
		validate: validator.New(),
	}
}

// Form отдает форму входа.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login.form"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var data view.LoginPage
	if r.URL.Query().Get("success") != "" {
		data.Success = SuccessMessage
	}
	h.render(w, log, http.StatusOK, data)
}

// ServeHTTP обрабатывает отправку формы входа.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.login"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	// Лишние поля формы (чекбоксы, кнопки, токены) не считаются ошибкой.
	dec := form.NewDecoder(r.Body)
	dec.IgnoreUnknownKeys(true)
	if err := dec.Decode(&req); err != nil {
		log.Error("failed to decode form", sl.Err(err))
		h.metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		h.render(w, log, http.StatusBadRequest, view.LoginPage{Error: services.Message(err)})
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Info("validation failed", slog.Any("missing", response.MissingFields(err)))
		h.metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
		h.render(w, log, http.StatusOK, view.LoginPage{
			Email: req.Email,
			Error: services.Message(services.ErrInvalidCredentials),
		})
		return
	}

	principal, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		status := http.StatusOK
		if errors.Is(err, services.ErrInvalidCredentials) {
			log.Info("invalid credentials")
			h.metrics.Logins.WithLabelValues(metrics.ResultFailure).Inc()
		} else {
			log.Error("login failed", sl.Err(err))
			h.metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
			status = http.StatusInternalServerError
		}
		h.render(w, log, status, view.LoginPage{Email: req.Email, Error: services.Message(err)})
		return
	}

	sess, ok := session.FromContext(r.Context())
	if !ok {
		log.Error("no session in request context")
		h.metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	if err := h.sessions.SetPrincipal(r.Context(), w, sess, *principal); err != nil {
		log.Error("failed to store principal in session", sl.Err(err))
		h.metrics.Logins.WithLabelValues(metrics.ResultError).Inc()
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	h.metrics.Logins.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info("login success", slog.Int64("user_id", principal.ID), slog.String("role", string(principal.Role)))
	http.Redirect(w, r, "/landing", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, log *slog.Logger, status int, data view.LoginPage) {
	if err := h.pages.Render(w, status, view.PageLogin, data); err != nil {
		log.Error("failed to render page", sl.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
