// Package signup реализует HTTP-обработчики формы регистрации.
package signup

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
)

// Request — поля формы регистрации.
type Request struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required"`
	Password string `form:"password" validate:"required"`
}

// Handler обрабатывает регистрацию нового пользователя.
type Handler struct {
	log      *slog.Logger
	auth     Service
	pages    Renderer
	metrics  *metrics.Metrics
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, auth Service, pages Renderer, m *metrics.Metrics) *Handler {
	return &Handler{
		log:      log,
		auth:     auth,
		pages:    pages,
		metrics:  m,
		validate: validator.New(),
	}
}

// Form отдает пустую форму регистрации.
func (h *Handler) Form(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup.form"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	h.render(w, log, http.StatusOK, view.SignupPage{})
}

// ServeHTTP регистрирует пользователя. При успехе перенаправляет на
// /login?success=1, при ошибке рендерит форму заново. Пароль в форму не возвращается.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.signup"

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
		h.metrics.Signups.WithLabelValues(metrics.ResultError).Inc()
		h.render(w, log, http.StatusBadRequest, view.SignupPage{Error: services.Message(err)})
		return
	}

	page := view.SignupPage{Username: req.Username, Email: req.Email}

	if err := h.validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			log.Info("validation failed", slog.String("details", response.ValidationMessage(verrs)))
		}
		h.metrics.Signups.WithLabelValues(metrics.ResultFailure).Inc()
		page.Error = services.Message(services.ErrMissingField)
		h.render(w, log, http.StatusOK, page)
		return
	}

	user, err := h.auth.Signup(r.Context(), req.Username, req.Email, req.Password)
	switch {
	case errors.Is(err, services.ErrMissingField),
		errors.Is(err, services.ErrEmailTaken),
		errors.Is(err, services.ErrUsernameTaken),
		errors.Is(err, services.ErrPasswordTooLong):
		log.Info("signup rejected", slog.String("reason", err.Error()))
		h.metrics.Signups.WithLabelValues(metrics.ResultFailure).Inc()
		page.Error = services.Message(err)
		h.render(w, log, http.StatusOK, page)
		return
	case err != nil:
		log.Error("signup failed", sl.Err(err))
		h.metrics.Signups.WithLabelValues(metrics.ResultError).Inc()
		page.Error = services.Message(err)
		h.render(w, log, http.StatusInternalServerError, page)
		return
	}

	h.metrics.Signups.WithLabelValues(metrics.ResultSuccess).Inc()
	log.Info("user registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	http.Redirect(w, r, "/login?success=1", http.StatusSeeOther)
}

func (h *Handler) render(w http.ResponseWriter, log *slog.Logger, status int, data view.SignupPage) {
	if err := h.pages.Render(w, status, view.PageSignup, data); err != nil {
		log.Error("failed to render page", sl.Err(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}
