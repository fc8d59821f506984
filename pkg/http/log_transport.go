package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// context keys for attaching request metadata
type payloadContextKey struct{}

// RequestIDHeader correlates an outbound call with vendor-side logs.
const RequestIDHeader = "X-Request-ID"

var secretHeaders = map[string]struct{}{
	"authorization": {},
	"apikey":        {},
	"xi-api-key":    {},
	"cookie":        {},
}

type logTransport struct {
	transport http.RoundTripper
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	start := time.Now()

	if req.Header.Get(RequestIDHeader) == "" {
		req = req.Clone(ctx)
		req.Header.Set(RequestIDHeader, uuid.NewString())
	}

	fields := []zap.Field{
		zap.String("outbound_request_id", req.Header.Get(RequestIDHeader)),
		zap.String("method", req.Method),
		zap.String("url", req.URL.String()),
		zap.Any("headers", redactHeaders(req.Header)),
	}

	if payload, ok := ctx.Value(payloadContextKey{}).([]byte); ok && len(payload) > 0 {
		fields = append(fields, zap.Int("payload_size", len(payload)))
	}

	ctxzap.Debug(ctx, "HTTP outbound request", fields...)

	resp, err := t.transport.RoundTrip(req)
	if err != nil {
		ctxzap.Debug(ctx, "HTTP outbound request failed",
			zap.String("url", req.URL.String()),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err),
		)
		return nil, err
	}

	ctxzap.Debug(ctx, "HTTP outbound response",
		zap.String("url", req.URL.String()),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	return resp, nil
}

func redactHeaders(h http.Header) http.Header {
	out := make(http.Header, len(h))
	for key, values := range h {
		if _, secret := secretHeaders[strings.ToLower(key)]; secret {
			out[key] = []string{"[REDACTED]"}
			continue
		}
		out[key] = values
	}
	return out
}

// WithRequestLogging wraps the HTTP transport with debug logging of method, URL, redacted headers and status.
func WithRequestLogging() HttpOpts {
	return WithTransport(func(rt http.RoundTripper) http.RoundTripper {
		return &logTransport{
			transport: rt,
		}
	})
}
