package auth

import (
	"github.com/go-chi/chi/v5"
)

// RegisterPublicRoutes registers the routes reachable without a session
func RegisterPublicRoutes(r chi.Router, h *Handler) {
	r.Post("/auth/login", h.Login)
	r.Post("/auth/signup", h.SignUp)
	r.Post("/auth/logout", h.Logout)
}

// RegisterRoutes registers the session-protected auth routes
func RegisterRoutes(r chi.Router, h *Handler) {
	r.Get("/auth/me", h.Me)
}
