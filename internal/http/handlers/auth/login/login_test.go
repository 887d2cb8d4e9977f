package login

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/session-auth/internal/http/view"
	"github.com/magabrotheeeer/session-auth/internal/lib/jwt"
	"github.com/magabrotheeeer/session-auth/internal/metrics"
	"github.com/magabrotheeeer/session-auth/internal/models"
	services "github.com/magabrotheeeer/session-auth/internal/services/auth"
	"github.com/magabrotheeeer/session-auth/internal/session"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Login(ctx context.Context, email, password string) (*models.Principal, error) {
	args := m.Called(ctx, email, password)
	p, _ := args.Get(0).(*models.Principal)
	return p, args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

type fixture struct {
	handler *Handler
	auth    *AuthServiceMock
	store   *session.MemoryStore
	metrics *metrics.Metrics
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pages, err := view.New()
	require.NoError(t, err)

	store := session.NewMemoryStore(10, time.Hour)
	manager := session.NewManager(store, jwt.NewJWTMaker("secret", time.Hour),
		session.Options{CookieName: "sid", TTL: time.Hour}, newNoopLogger())
	m := metrics.New(prometheus.NewRegistry(), func() int { return 0 })
	auth := new(AuthServiceMock)

	return &fixture{
		handler: New(newNoopLogger(), auth, manager, pages, m),
		auth:    auth,
		store:   store,
		metrics: m,
	}
}

func postForm(form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	ctx := context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123")
	ctx = session.NewContext(ctx, &session.Session{ID: "anon"})
	return req.WithContext(ctx)
}

func TestLoginHandler_Form(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name        string
		target      string
		wantSuccess bool
	}{
		{name: "plain form", target: "/login"},
		{name: "after signup", target: "/login?success=1", wantSuccess: true},
		{name: "any non-empty success value", target: "/login?success=yes", wantSuccess: true},
		{name: "empty success value", target: "/login?success="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			f.handler.Form(rec, httptest.NewRequest(http.MethodGet, tt.target, nil))

			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), `action="/login"`)
			assert.Equal(t, tt.wantSuccess, strings.Contains(rec.Body.String(), SuccessMessage))
		})
	}
}

func TestLoginHandler_ServeHTTP(t *testing.T) {
	principal := &models.Principal{ID: 2, Username: "RegularUser", Role: models.RoleUser}

	tests := []struct {
		name           string
		form           url.Values
		callService    bool
		mockResp       *models.Principal
		mockErr        error
		wantStatusCode int
		wantLocation   string
		wantBody       string
		wantResult     string
		wantSession    bool
	}{
		{
			name:           "valid login",
			form:           url.Values{"email": {"user@example.com"}, "password": {"user123"}},
			callService:    true,
			mockResp:       principal,
			wantStatusCode: http.StatusSeeOther,
			wantLocation:   "/landing",
			wantResult:     metrics.ResultSuccess,
			wantSession:    true,
		},
		{
			name: "extra form fields are ignored",
			form: url.Values{
				"email":    {"user@example.com"},
				"password": {"user123"},
				"remember": {"on"},
				"submit":   {"Log in"},
			},
			callService:    true,
			mockResp:       principal,
			wantStatusCode: http.StatusSeeOther,
			wantLocation:   "/landing",
			wantResult:     metrics.ResultSuccess,
			wantSession:    true,
		},
		{
			name:           "invalid credentials",
			form:           url.Values{"email": {"user@example.com"}, "password": {"user124"}},
			callService:    true,
			mockErr:        services.ErrInvalidCredentials,
			wantStatusCode: http.StatusOK,
			wantBody:       "Invalid credentials.",
			wantResult:     metrics.ResultFailure,
		},
		{
			name:           "missing password",
			form:           url.Values{"email": {"user@example.com"}, "password": {""}},
			wantStatusCode: http.StatusOK,
			wantBody:       "Invalid credentials.",
			wantResult:     metrics.ResultFailure,
		},
		{
			name:           "service error",
			form:           url.Values{"email": {"user@example.com"}, "password": {"user123"}},
			callService:    true,
			mockErr:        errors.New("boom"),
			wantStatusCode: http.StatusInternalServerError,
			wantBody:       "Something went wrong. Please try again.",
			wantResult:     metrics.ResultError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			if tt.callService {
				f.auth.On("Login", mock.Anything, tt.form.Get("email"), tt.form.Get("password")).
					Return(tt.mockResp, tt.mockErr).Once()
			}

			rec := httptest.NewRecorder()
			f.handler.ServeHTTP(rec, postForm(tt.form))

			assert.Equal(t, tt.wantStatusCode, rec.Code)
			assert.Equal(t, tt.wantLocation, rec.Header().Get("Location"))
			if tt.wantBody != "" {
				assert.Contains(t, rec.Body.String(), tt.wantBody)
				assert.Contains(t, rec.Body.String(), `value="user@example.com"`)
			}
			assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Logins.WithLabelValues(tt.wantResult)))

			if tt.wantSession {
				assert.Equal(t, 1, f.store.Len())
				require.Len(t, rec.Result().Cookies(), 1)
				assert.Equal(t, "sid", rec.Result().Cookies()[0].Name)
			} else {
				assert.Equal(t, 0, f.store.Len())
				assert.Empty(t, rec.Result().Cookies())
			}
			f.auth.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_UnknownEmailAndWrongPasswordLookAlike(t *testing.T) {
	bodies := make([]string, 0, 2)
	for _, email := range []string{"nobody@example.com", "user@example.com"} {
		f := newFixture(t)
		f.auth.On("Login", mock.Anything, email, "wrong").Return(nil, services.ErrInvalidCredentials).Once()

		rec := httptest.NewRecorder()
		f.handler.ServeHTTP(rec, postForm(url.Values{"email": {email}, "password": {"wrong"}}))
		require.Equal(t, http.StatusOK, rec.Code)
		bodies = append(bodies, strings.ReplaceAll(rec.Body.String(), email, ""))
	}
	assert.Equal(t, bodies[0], bodies[1])
}

func TestLoginHandler_NoSessionInContext(t *testing.T) {
	f := newFixture(t)
	f.auth.On("Login", mock.Anything, "user@example.com", "user123").
		Return(&models.Principal{ID: 2, Username: "RegularUser", Role: models.RoleUser}, nil).Once()

	form := url.Values{"email": {"user@example.com"}, "password": {"user123"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Logins.WithLabelValues(metrics.ResultError)))
}
