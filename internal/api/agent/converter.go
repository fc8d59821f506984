package agent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/futig/convai-admin/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const maxJSONBody = 1 << 20

// parseAddKnowledgeItem reads either a JSON body (url, text) or a multipart form (file).
func (h *Handler) parseAddKnowledgeItem(ctx context.Context, w http.ResponseWriter, r *http.Request) (*entity.AddKnowledgeItemRequest, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		var req entity.AddKnowledgeItemRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody)).Decode(&req); err != nil {
			return nil, fmt.Errorf("%w: invalid request body", entity.ErrInvalidFormat)
		}
		return &req, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || r.ContentLength > h.maxUploadSize {
			return nil, fmt.Errorf("%w: upload exceeds %d bytes", entity.ErrFileTooLarge, h.maxUploadSize)
		}
		return nil, fmt.Errorf("%w: malformed multipart form", entity.ErrInvalidFormat)
	}
	defer func() {
		if err := r.MultipartForm.RemoveAll(); err != nil {
			ctxzap.Warn(ctx, "failed to remove multipart temp files", zap.Error(err))
		}
	}()

	req := &entity.AddKnowledgeItemRequest{
		Type: entity.KnowledgeItemType(strings.TrimSpace(r.FormValue("type"))),
		Name: strings.TrimSpace(r.FormValue("name")),
		URL:  strings.TrimSpace(r.FormValue("url")),
		Text: r.FormValue("text"),
	}

	file, header, err := r.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return req, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFile, err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entity.ErrInvalidFile, err)
	}

	if req.Type == "" {
		req.Type = entity.KnowledgeItemFile
	}
	req.Filename = header.Filename
	req.Content = content

	return req, nil
}
