package middleware

import (
	"net/http"
	"strings"

	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/entity"
)

// SessionCookies reads and writes the HttpOnly token cookies.
type SessionCookies struct {
	cfg config.SessionConfig
}

func NewSessionCookies(cfg config.SessionConfig) *SessionCookies {
	return &SessionCookies{cfg: cfg}
}

// Tokens returns the access and refresh tokens of the request. A Bearer header takes
// precedence over the access cookie.
func (c *SessionCookies) Tokens(r *http.Request) (accessToken, refreshToken string) {
	if auth := r.Header.Get("Authorization"); len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		accessToken = strings.TrimSpace(auth[7:])
	} else if cookie, err := r.Cookie(c.cfg.AccessCookie); err == nil {
		accessToken = cookie.Value
	}

	if cookie, err := r.Cookie(c.cfg.RefreshCookie); err == nil {
		refreshToken = cookie.Value
	}

	return accessToken, refreshToken
}

func (c *SessionCookies) Set(w http.ResponseWriter, session *entity.AuthSession) {
	maxAge := int(c.cfg.CookieMaxAge.Seconds())
	http.SetCookie(w, c.cookie(c.cfg.AccessCookie, session.AccessToken, maxAge))
	if session.RefreshToken != "" {
		http.SetCookie(w, c.cookie(c.cfg.RefreshCookie, session.RefreshToken, maxAge))
	}
}

func (c *SessionCookies) Clear(w http.ResponseWriter) {
	http.SetCookie(w, c.cookie(c.cfg.AccessCookie, "", -1))
	http.SetCookie(w, c.cookie(c.cfg.RefreshCookie, "", -1))
}

func (c *SessionCookies) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Domain:   c.cfg.CookieDomain,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
}
