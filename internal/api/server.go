package api

import (
	"net/http"
	"time"

	agentapi "github.com/futig/convai-admin/internal/api/agent"
	authapi "github.com/futig/convai-admin/internal/api/auth"
	conversationapi "github.com/futig/convai-admin/internal/api/conversation"
	"github.com/futig/convai-admin/internal/api/docs"
	"github.com/futig/convai-admin/internal/api/middleware"
	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handlers groups the HTTP handlers mounted under /api
type Handlers struct {
	Auth         *authapi.Handler
	Conversation *conversationapi.Handler
	Agent        *agentapi.Handler
}

// RouterConfig holds the router options that come from configuration
type RouterConfig struct {
	AllowedOrigins []string
	FrontendDir    string
}

// SetupRouter creates and configures the HTTP router
func SetupRouter(cfg RouterConfig, handlers Handlers, session *middleware.Session, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(chimiddleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.Success(w, entity.StatusResponse{Status: "healthy"})
	})

	docs.RegisterRoutes(r)

	r.Route("/api", func(r chi.Router) {
		authapi.RegisterPublicRoutes(r, handlers.Auth)

		r.Group(func(r chi.Router) {
			r.Use(session.RequireAuth)

			authapi.RegisterRoutes(r, handlers.Auth)
			conversationapi.RegisterRoutes(r, handlers.Conversation)
			agentapi.RegisterRoutes(r, handlers.Agent)
		})
	})

	if cfg.FrontendDir != "" {
		r.Handle("/*", session.PageGuard(newStaticSite(cfg.FrontendDir)))
	}

	return r
}
