package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/convai-admin/internal/api/middleware"
	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/pkg/logger"
	"github.com/futig/convai-admin/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
)

const maxCredentialsBody = 1 << 14

type Handler struct {
	usecase AuthUsecase
	cookies *middleware.SessionCookies
}

func NewHandler(usecase AuthUsecase, cookies *middleware.SessionCookies) *Handler {
	return &Handler{
		usecase: usecase,
		cookies: cookies,
	}
}

// Login handles POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Login")

	creds, ok := h.decodeCredentials(ctx, w, r)
	if !ok {
		return
	}

	session, err := h.usecase.Login(ctx, creds)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	h.cookies.Set(w, session)
	response.Success(w, toSessionResponse(session))
}

// SignUp handles POST /api/auth/signup
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "SignUp")

	creds, ok := h.decodeCredentials(ctx, w, r)
	if !ok {
		return
	}

	result, err := h.usecase.SignUp(ctx, creds)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	if result.Session != nil {
		h.cookies.Set(w, result.Session)
	}

	response.Created(w, result)
}

// Logout handles POST /api/auth/logout
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Logout")

	accessToken, _ := h.cookies.Tokens(r)
	h.usecase.Logout(ctx, accessToken)
	h.cookies.Clear(w)

	ctxzap.Info(ctx, "operator logged out")
	response.Success(w, entity.StatusResponse{Status: "ok"})
}

// Me handles GET /api/auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		response.Error(r.Context(), w, http.StatusUnauthorized, "authentication required", nil)
		return
	}
	response.Success(w, user)
}

func (h *Handler) decodeCredentials(ctx context.Context, w http.ResponseWriter, r *http.Request) (entity.Credentials, bool) {
	var creds entity.Credentials
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCredentialsBody)).Decode(&creds); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return creds, false
	}
	return creds, true
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrInvalidCredentials):
		response.Error(ctx, w, http.StatusUnauthorized, "invalid email or password", nil)
	case errors.Is(err, entity.ErrMissingField), errors.Is(err, entity.ErrInvalidFormat), errors.Is(err, entity.ErrInvalidParameter):
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, entity.ErrUnauthorized):
		response.Error(ctx, w, http.StatusUnauthorized, "authentication required", nil)
	default:
		response.Error(ctx, w, http.StatusBadGateway, "auth provider unavailable", err)
	}
}
