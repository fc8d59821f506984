package http

import (
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestConnector(baseURL string, opts ...HttpOpts) *Connector {
	return NewConnector(&ConnectorConfig{BaseURL: baseURL, Logger: zap.NewNop()}, opts...)
}

func TestDoRequest_SendsJSONAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/things", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"demo"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":"abc"}`))
	}))
	defer srv.Close()

	var resp struct {
		ID string `json:"id"`
	}
	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodPost, "/v1/things", map[string]string{"name": "demo"}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "abc", resp.ID)
}

func TestDoRequest_QueryDropsEmptyValues(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "15", r.URL.Query().Get("page_size"))
		_, hasCursor := r.URL.Query()["cursor"]
		assert.False(t, hasCursor)
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/list", nil, nil,
		WithQuery(url.Values{"page_size": {"15"}, "cursor": {""}}),
	)
	require.NoError(t, err)
}

func TestResolveURL_JoinsBaseAndMergesQuery(t *testing.T) {
	c := newTestConnector("https://api.example.com")

	raw, err := c.resolveURL("/v1/convai/agents", &requestConfig{})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/convai/agents", raw)

	raw, err = c.resolveURL("/v1/convai/conversations?agent_id=a1", &requestConfig{query: url.Values{"page_size": {"15"}}})
	require.NoError(t, err)
	assert.Equal(t, "https://api.example.com/v1/convai/conversations?agent_id=a1&page_size=15", raw)
}

func TestDoRequest_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"detail":"missing"}`))
	}))
	defer srv.Close()

	err := newTestConnector(srv.URL).DoRequest(context.Background(), http.MethodGet, "/missing", nil, nil)
	require.Error(t, err)

	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.StatusCode)
	assert.Equal(t, http.StatusNotFound, StatusCode(err))
	assert.False(t, IsTransient(err))
}

func TestDoRawRequest_ReturnsBytesAndContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "audio/mpeg")
		w.Write([]byte{0x49, 0x44, 0x33})
	}))
	defer srv.Close()

	raw, err := newTestConnector(srv.URL).DoRawRequest(context.Background(), http.MethodGet, "/audio")
	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", raw.ContentType)
	assert.Equal(t, []byte{0x49, 0x44, 0x33}, raw.Body)
}

func TestDoMultipartRequest_WritesFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !assert.NoError(t, r.ParseMultipartForm(1<<20)) {
			return
		}
		file, header, err := r.FormFile("file")
		if !assert.NoError(t, err) {
			return
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		assert.Equal(t, "faq.txt", header.Filename)
		assert.Equal(t, "hello", string(content))
		assert.Equal(t, "FAQ", r.FormValue("name"))
		w.Write([]byte(`{"id":"doc"}`))
	}))
	defer srv.Close()

	var resp struct {
		ID string `json:"id"`
	}
	err := newTestConnector(srv.URL).DoMultipartRequest(context.Background(), http.MethodPost, "/upload", func(mw *multipart.Writer) error {
		part, err := mw.CreateFormFile("file", "faq.txt")
		if err != nil {
			return err
		}
		if _, err := part.Write([]byte("hello")); err != nil {
			return err
		}
		return mw.WriteField("name", "FAQ")
	}, &resp)
	require.NoError(t, err)
	assert.Equal(t, "doc", resp.ID)
}

func TestHeaderAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("xi-api-key"))
		assert.Equal(t, "Bearer user-token", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, WithHeaderAuth("xi-api-key", "secret"), WithAuthToken("service-token"), WithRequestLogging())
	err := c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil, WithHeader("Authorization", "Bearer user-token"))
	require.NoError(t, err)
}

func TestIsTransient(t *testing.T) {
	assert.True(t, IsTransient(&NetworkError{Err: errors.New("connection reset")}))
	assert.True(t, IsTransient(&HTTPError{StatusCode: http.StatusTooManyRequests}))
	assert.True(t, IsTransient(&HTTPError{StatusCode: http.StatusBadGateway}))
	assert.False(t, IsTransient(&HTTPError{StatusCode: http.StatusBadRequest}))
	assert.False(t, IsTransient(errors.New("plain")))
}

func TestRedactHeaders(t *testing.T) {
	h := http.Header{}
	h.Set("Xi-Api-Key", "secret")
	h.Set("Apikey", "anon")
	h.Set("Accept", "application/json")

	out := redactHeaders(h)
	assert.Equal(t, "[REDACTED]", out.Get("Xi-Api-Key"))
	assert.Equal(t, "[REDACTED]", out.Get("Apikey"))
	assert.Equal(t, "application/json", out.Get("Accept"))
}

func TestRequestLogging_SetsRequestID(t *testing.T) {
	var seen []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Header.Get(RequestIDHeader))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := newTestConnector(srv.URL, WithRequestLogging())
	require.NoError(t, c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil))
	require.NoError(t, c.DoRequest(context.Background(), http.MethodGet, "/", nil, nil, WithHeader(RequestIDHeader, "fixed")))

	require.Len(t, seen, 2)
	_, err := uuid.Parse(seen[0])
	assert.NoError(t, err)
	assert.Equal(t, "fixed", seen[1])
}
