package agent

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/futig/convai-admin/internal/api/middleware"
	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/pkg/logger"
	"github.com/futig/convai-admin/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	usecase       AgentUsecase
	maxUploadSize int64
}

func NewHandler(usecase AgentUsecase, maxUploadSize int64) *Handler {
	return &Handler{
		usecase:       usecase,
		maxUploadSize: maxUploadSize,
	}
}

func agentContext(r *http.Request, action string) (context.Context, string) {
	agentID := chi.URLParam(r, "agent_id")
	return logger.AddFields(logger.WithAction(r.Context(), action), zap.String("agent_id", agentID)), agentID
}

// ListAgents handles GET /api/agents
func (h *Handler) ListAgents(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListAgents")

	agents, err := h.usecase.ListAgents(ctx)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.ListAgentsResponse{Agents: agents})
}

// GetSettings handles GET /api/agents/{agent_id}/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	ctx, agentID := agentContext(r, "GetAgentSettings")

	settings, err := h.usecase.GetAgentSettings(ctx, agentID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, settings)
}

// UpdateSettings handles PUT /api/agents/{agent_id}/settings
func (h *Handler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	ctx, agentID := agentContext(r, "UpdateAgentSettings")

	var req entity.UpdateAgentSettingsRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	settings, err := h.usecase.UpdateAgentSettings(ctx, agentID, middleware.UserFromContext(r.Context()), req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, settings)
}

// ListKnowledgeBase handles GET /api/agents/{agent_id}/knowledge-base
func (h *Handler) ListKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	ctx, agentID := agentContext(r, "ListKnowledgeBase")

	items, err := h.usecase.ListKnowledgeBase(ctx, agentID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, items)
}

// AddKnowledgeBaseItem handles POST /api/agents/{agent_id}/knowledge-base
// Accepts JSON for url and text items, multipart/form-data for file uploads.
func (h *Handler) AddKnowledgeBaseItem(w http.ResponseWriter, r *http.Request) {
	ctx, agentID := agentContext(r, "AddKnowledgeBaseItem")

	req, err := h.parseAddKnowledgeItem(ctx, w, r)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	item, err := h.usecase.AddKnowledgeBaseItem(ctx, agentID, middleware.UserFromContext(r.Context()), req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Created(w, item)
}

// DeleteKnowledgeBaseItem handles DELETE /api/agents/{agent_id}/knowledge-base/{item_id}
func (h *Handler) DeleteKnowledgeBaseItem(w http.ResponseWriter, r *http.Request) {
	ctx, agentID := agentContext(r, "DeleteKnowledgeBaseItem")
	itemID := chi.URLParam(r, "item_id")
	ctx = logger.AddFields(ctx, zap.String("item_id", itemID))

	if err := h.usecase.DeleteKnowledgeBaseItem(ctx, agentID, middleware.UserFromContext(r.Context()), itemID); err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.NoContent(w)
}

// ListChanges handles GET /api/agents/{agent_id}/changes?limit=
func (h *Handler) ListChanges(w http.ResponseWriter, r *http.Request) {
	ctx, agentID := agentContext(r, "ListChanges")

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(ctx, w, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = parsed
	}

	changes, err := h.usecase.ListChangeLog(ctx, agentID, limit)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, entity.ListChangesResponse{Changes: changes})
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrAgentNotFound):
		response.Error(ctx, w, http.StatusNotFound, "agent not found", nil)
	case errors.Is(err, entity.ErrKnowledgeItemNotFound):
		response.Error(ctx, w, http.StatusNotFound, "knowledge base item not found", nil)
	case errors.Is(err, entity.ErrKnowledgeItemExists):
		response.Error(ctx, w, http.StatusConflict, err.Error(), nil)
	case errors.Is(err, entity.ErrFileTooLarge):
		response.Error(ctx, w, http.StatusRequestEntityTooLarge, err.Error(), nil)
	case errors.Is(err, entity.ErrInvalidFile),
		errors.Is(err, entity.ErrInvalidExtension),
		errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrInvalidParameter):
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, entity.ErrStorage):
		response.Error(ctx, w, http.StatusInternalServerError, "internal server error", err)
	default:
		response.Error(ctx, w, http.StatusBadGateway, "conversation platform request failed", err)
	}
}
