package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/pkg/logger"
	"github.com/futig/convai-admin/internal/pkg/response"
	authuc "github.com/futig/convai-admin/internal/usecase/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const loginPath = "/login"

type Authenticator interface {
	Authenticate(ctx context.Context, accessToken, refreshToken string) (*authuc.AuthResult, error)
}

type userContextKey struct{}

// WithUser stores the authenticated operator in ctx.
func WithUser(ctx context.Context, user *entity.User) context.Context {
	return context.WithValue(ctx, userContextKey{}, user)
}

// UserFromContext returns the operator set by RequireAuth, or nil.
func UserFromContext(ctx context.Context) *entity.User {
	user, _ := ctx.Value(userContextKey{}).(*entity.User)
	return user
}

// Session guards API routes and frontend pages with the operator session.
type Session struct {
	auth    Authenticator
	cookies *SessionCookies
}

func NewSession(auth Authenticator, cookies *SessionCookies) *Session {
	return &Session{auth: auth, cookies: cookies}
}

// authenticate resolves the request's operator and hands refreshed tokens back to the browser.
func (s *Session) authenticate(w http.ResponseWriter, r *http.Request) (*entity.User, error) {
	accessToken, refreshToken := s.cookies.Tokens(r)

	result, err := s.auth.Authenticate(r.Context(), accessToken, refreshToken)
	if err != nil {
		return nil, err
	}

	if result.Session != nil {
		s.cookies.Set(w, result.Session)
	}

	return result.User, nil
}

// RequireAuth rejects API requests without a valid session with 401 JSON.
func (s *Session) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := s.authenticate(w, r)
		if err != nil {
			ctx := r.Context()
			if errors.Is(err, entity.ErrUnauthorized) {
				s.cookies.Clear(w)
				response.Error(ctx, w, http.StatusUnauthorized, "authentication required", nil)
				return
			}
			response.Error(ctx, w, http.StatusBadGateway, "auth provider unavailable", err)
			return
		}

		ctx := logger.AddFields(WithUser(r.Context(), user), zap.String("user_email", user.Email))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// PageGuard redirects signed-out visitors to the login page and signed-in ones away from it.
// Static assets pass through untouched.
func (s *Session) PageGuard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if isAssetPath(path) {
			next.ServeHTTP(w, r)
			return
		}

		_, err := s.authenticate(w, r)
		if err != nil && !errors.Is(err, entity.ErrUnauthorized) {
			// Provider trouble should not lock operators out of static pages.
			ctxzap.Warn(r.Context(), "page guard could not check session", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}
		signedIn := err == nil

		onLogin := strings.HasPrefix(path, loginPath)
		switch {
		case !signedIn && !onLogin:
			http.Redirect(w, r, loginPath, http.StatusFound)
		case signedIn && onLogin:
			http.Redirect(w, r, "/", http.StatusFound)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func isAssetPath(path string) bool {
	return strings.HasPrefix(path, "/_next") ||
		strings.HasPrefix(path, "/api") ||
		path == "/favicon.ico" ||
		strings.Contains(path, ".")
}
