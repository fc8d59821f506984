package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/futig/convai-admin/internal/api/middleware"
	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/entity"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsecase struct {
	loginErr  error
	signUp    *entity.SignUpResult
	loggedOut []string
}

func (f *fakeUsecase) Login(ctx context.Context, creds entity.Credentials) (*entity.AuthSession, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &entity.AuthSession{AccessToken: "at", RefreshToken: "rt", ExpiresIn: 3600, User: &entity.User{ID: "u1", Email: creds.Email}}, nil
}

func (f *fakeUsecase) SignUp(ctx context.Context, creds entity.Credentials) (*entity.SignUpResult, error) {
	return f.signUp, nil
}

func (f *fakeUsecase) Logout(ctx context.Context, accessToken string) {
	f.loggedOut = append(f.loggedOut, accessToken)
}

func newTestRouter(uc *fakeUsecase) http.Handler {
	h := NewHandler(uc, middleware.NewSessionCookies(config.SessionConfig{
		AccessCookie:  "sb-access-token",
		RefreshCookie: "sb-refresh-token",
		CookieMaxAge:  time.Hour,
	}))
	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		RegisterPublicRoutes(r, h)
		r.Group(func(r chi.Router) {
			r.Use(func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					ctx := middleware.WithUser(r.Context(), &entity.User{ID: "u1", Email: "op@example.com"})
					next.ServeHTTP(w, r.WithContext(ctx))
				})
			})
			RegisterRoutes(r, h)
		})
	})
	return r
}

func TestLogin_SetsCookiesAndHidesTokens(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(`{"email":"op@example.com","password":"secret1"}`))
	newTestRouter(&fakeUsecase{}).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user":{"id":"u1","email":"op@example.com"},"expires_in":3600}`, rec.Body.String())

	names := map[string]string{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = c.Value
		assert.True(t, c.HttpOnly)
	}
	assert.Equal(t, map[string]string{"sb-access-token": "at", "sb-refresh-token": "rt"}, names)
}

func TestLogin_Errors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		err    error
		status int
	}{
		{"bad json", `{`, nil, http.StatusBadRequest},
		{"bad credentials", `{"email":"op@example.com","password":"x"}`, entity.ErrInvalidCredentials, http.StatusUnauthorized},
		{"validation", `{"email":"","password":"x"}`, entity.ErrMissingField, http.StatusBadRequest},
		{"provider down", `{"email":"op@example.com","password":"x"}`, errors.New("timeout"), http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(tc.body))
			newTestRouter(&fakeUsecase{loginErr: tc.err}).ServeHTTP(rec, req)

			assert.Equal(t, tc.status, rec.Code)
			assert.Empty(t, rec.Result().Cookies())
		})
	}
}

func TestSignUp_ConfirmationRequired(t *testing.T) {
	uc := &fakeUsecase{signUp: &entity.SignUpResult{User: &entity.User{ID: "u2", Email: "new@example.com"}, ConfirmationRequired: true}}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup", strings.NewReader(`{"email":"new@example.com","password":"secret1"}`))
	newTestRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"user":{"id":"u2","email":"new@example.com"},"confirmation_required":true}`, rec.Body.String())
	assert.Empty(t, rec.Result().Cookies())
}

func TestLogout_ClearsCookies(t *testing.T) {
	uc := &fakeUsecase{}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.AddCookie(&http.Cookie{Name: "sb-access-token", Value: "at"})
	newTestRouter(uc).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"at"}, uc.loggedOut)
	assert.Len(t, rec.Result().Cookies(), 2)
}

func TestMe(t *testing.T) {
	rec := httptest.NewRecorder()
	newTestRouter(&fakeUsecase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"u1","email":"op@example.com"}`, rec.Body.String())
}
