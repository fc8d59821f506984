package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futig/convai-admin/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_WritesStatusAndMessage(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(context.Background(), rec, http.StatusNotFound, "resource not found", errors.New("agent not found"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body entity.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Not Found", body.Error)
	assert.Equal(t, "resource not found", body.Message)
}

func TestBinary_SetsDownloadHeaders(t *testing.T) {
	rec := httptest.NewRecorder()

	Binary(rec, "application/pdf", "conv_1.pdf", []byte("%PDF"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="conv_1.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "4", rec.Header().Get("Content-Length"))
	assert.Equal(t, "%PDF", rec.Body.String())
}

func TestBinary_InlineWithoutFilename(t *testing.T) {
	rec := httptest.NewRecorder()

	Binary(rec, "", "", []byte{1})

	assert.Equal(t, "application/octet-stream", rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
}
