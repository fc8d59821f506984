package conversation

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/pkg/logger"
	"github.com/futig/convai-admin/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ConversationUsecase
}

func NewHandler(usecase ConversationUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// ListConversations handles GET /api/conversations
func (h *Handler) ListConversations(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListConversations")

	query := r.URL.Query()
	req := entity.ListConversationsRequest{
		Cursor:    query.Get("cursor"),
		AgentID:   query.Get("agent_id"),
		AgentName: query.Get("agent_name"),
	}

	if raw := query.Get("page_size"); raw != "" {
		pageSize, err := strconv.Atoi(raw)
		if err != nil || pageSize < 1 {
			response.Error(ctx, w, http.StatusBadRequest, "page_size must be a positive integer", nil)
			return
		}
		req.PageSize = pageSize
	}

	resp, err := h.usecase.ListConversations(ctx, req)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

// GetConversation handles GET /api/conversations/{conversation_id}
func (h *Handler) GetConversation(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversation_id")
	ctx := logger.AddFields(logger.WithAction(r.Context(), "GetConversation"), zap.String("conversation_id", conversationID))

	conv, err := h.usecase.GetConversation(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, conv)
}

// GetConversationAudio handles GET /api/conversations/{conversation_id}/audio
func (h *Handler) GetConversationAudio(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversation_id")
	ctx := logger.AddFields(logger.WithAction(r.Context(), "GetConversationAudio"), zap.String("conversation_id", conversationID))

	audio, err := h.usecase.GetConversationAudio(ctx, conversationID)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	w.Header().Set("Cache-Control", "private, max-age=3600")
	response.Binary(w, audio.ContentType, "", audio.Content)
}

// ExportTranscript handles GET /api/conversations/{conversation_id}/export?format=
func (h *Handler) ExportTranscript(w http.ResponseWriter, r *http.Request) {
	conversationID := chi.URLParam(r, "conversation_id")
	ctx := logger.AddFields(logger.WithAction(r.Context(), "ExportTranscript"), zap.String("conversation_id", conversationID))

	format := entity.ResultFormat(r.URL.Query().Get("format"))
	if format != "" && !format.IsValid() {
		response.Error(ctx, w, http.StatusBadRequest, "format must be one of markdown, docx, pdf", nil)
		return
	}

	file, err := h.usecase.ExportTranscript(ctx, conversationID, format)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Binary(w, file.ContentType, file.Filename, file.Content)
}

// GetAnalytics handles GET /api/analytics?days=
func (h *Handler) GetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetAnalytics")

	days := 0
	if raw := r.URL.Query().Get("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			response.Error(ctx, w, http.StatusBadRequest, "days must be a positive integer", nil)
			return
		}
		days = parsed
	}

	resp, err := h.usecase.GetAnalytics(ctx, days)
	if err != nil {
		h.handleUsecaseError(ctx, w, err)
		return
	}

	response.Success(w, resp)
}

func (h *Handler) handleUsecaseError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrConversationNotFound):
		response.Error(ctx, w, http.StatusNotFound, "conversation not found", nil)
	case errors.Is(err, entity.ErrAudioNotFound):
		response.Error(ctx, w, http.StatusNotFound, "conversation audio not available", nil)
	case errors.Is(err, entity.ErrInvalidParameter), errors.Is(err, entity.ErrInvalidFormat):
		response.Error(ctx, w, http.StatusBadRequest, err.Error(), nil)
	default:
		response.Error(ctx, w, http.StatusBadGateway, "conversation platform request failed", err)
	}
}
