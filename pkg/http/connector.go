package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"

	"go.uber.org/zap"
)

type Connector struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

type ConnectorConfig struct {
	BaseURL string
	Logger  *zap.Logger
}

func NewConnector(config *ConnectorConfig, options ...HttpOpts) *Connector {
	return &Connector{
		baseURL:    config.BaseURL,
		httpClient: newClient(options...),
		logger:     config.Logger,
	}
}

type RequestOpt func(*requestConfig)

type requestConfig struct {
	headers map[string]string
	query   url.Values
}

func WithHeader(key, value string) RequestOpt {
	return func(c *requestConfig) {
		if c.headers == nil {
			c.headers = make(map[string]string)
		}
		c.headers[key] = value
	}
}

// WithQuery appends the non-empty values to the request URL.
func WithQuery(values url.Values) RequestOpt {
	return func(c *requestConfig) {
		if c.query == nil {
			c.query = url.Values{}
		}
		for key, vals := range values {
			for _, v := range vals {
				if v != "" {
					c.query.Add(key, v)
				}
			}
		}
	}
}

// RawResponse is a non-JSON response body, e.g. conversation audio.
type RawResponse struct {
	Body        []byte
	ContentType string
}

// DoRequest sends reqBody as JSON (when non-nil) and decodes a 2xx JSON body into respBody.
func (c *Connector) DoRequest(ctx context.Context, method, endpoint string, reqBody, respBody any, opts ...RequestOpt) error {
	var bodyReader io.Reader
	contentType := ""
	if reqBody != nil {
		jsonData, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
		contentType = "application/json"
		// Attach payload to context for logging transport
		ctx = context.WithValue(ctx, payloadContextKey{}, jsonData)
	}

	raw, err := c.send(ctx, method, endpoint, bodyReader, contentType, "application/json", opts)
	if err != nil {
		return err
	}

	return decodeJSON(raw.Body, respBody)
}

// DoMultipartRequest builds a multipart body with prepareBody and decodes a 2xx JSON body into respBody.
func (c *Connector) DoMultipartRequest(ctx context.Context, method, endpoint string, prepareBody func(*multipart.Writer) error, respBody any, opts ...RequestOpt) error {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	if err := prepareBody(writer); err != nil {
		return fmt.Errorf("prepare multipart body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	raw, err := c.send(ctx, method, endpoint, body, writer.FormDataContentType(), "application/json", opts)
	if err != nil {
		return err
	}

	return decodeJSON(raw.Body, respBody)
}

// DoRawRequest returns the 2xx body untouched along with its content type.
func (c *Connector) DoRawRequest(ctx context.Context, method, endpoint string, opts ...RequestOpt) (*RawResponse, error) {
	return c.send(ctx, method, endpoint, nil, "", "*/*", opts)
}

func (c *Connector) send(
	ctx context.Context,
	method, endpoint string,
	body io.Reader,
	contentType, accept string,
	opts []RequestOpt,
) (*RawResponse, error) {
	cfg := &requestConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	target, err := c.resolveURL(endpoint, cfg)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", accept)

	for key, value := range cfg.headers {
		req.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &HTTPError{
			StatusCode: resp.StatusCode,
			Message:    string(bodyBytes),
		}
	}

	return &RawResponse{
		Body:        bodyBytes,
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

func (c *Connector) resolveURL(endpoint string, cfg *requestConfig) (string, error) {
	raw := c.baseURL + endpoint

	if len(cfg.query) == 0 {
		return raw, nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse request URL: %w", err)
	}

	q := u.Query()
	for key, vals := range cfg.query {
		for _, v := range vals {
			q.Add(key, v)
		}
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func decodeJSON(body []byte, respBody any) error {
	if respBody == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, respBody); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// HTTPError represents an HTTP error response
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// NetworkError represents a network-level error (connection, timeout, etc.)
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0 when err is not an *HTTPError.
func StatusCode(err error) int {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode
	}
	return 0
}

// IsTransient reports whether err is worth retrying: network failures, 429 and 5xx.
func IsTransient(err error) bool {
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return !errors.Is(err, context.Canceled)
	}

	status := StatusCode(err)
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}
