package common

import (
	"github.com/futig/convai-admin/internal/config"
	pkgHTTP "github.com/futig/convai-admin/pkg/http"
	"go.uber.org/zap"
)

// VendorAuth is the static credential header a vendor expects on every call.
type VendorAuth struct {
	Header string
	Value  string
}

// NewVendorConnector builds the outbound connector for one vendor. Its logs carry a
// "vendor" field so platform and auth-provider traffic can be told apart.
func NewVendorConnector(vendor string, cfg config.HTTPClientConfig, auth VendorAuth, logger *zap.Logger) *pkgHTTP.Connector {
	vendorLogger := logger.With(zap.String("vendor", vendor))
	if auth.Value == "" {
		vendorLogger.Warn("vendor credential is empty, requests will likely be rejected",
			zap.String("header", auth.Header),
		)
	}

	return pkgHTTP.NewConnector(
		&pkgHTTP.ConnectorConfig{
			Logger:  vendorLogger,
			BaseURL: cfg.Url,
		},
		pkgHTTP.WithRequestTimeout(cfg.RequestTimeout),
		pkgHTTP.WithConnClientTimeout(cfg.ConnTimeout),
		pkgHTTP.WithClientKeepAlive(cfg.KeepAlive),
		pkgHTTP.WithIdleConnTimeout(cfg.IdleConnTimeout),
		pkgHTTP.WithResponseHeaderTimeout(cfg.ResponseHeaderTimeout),
		pkgHTTP.WithRequestLogging(),
		pkgHTTP.WithHeaderAuth(auth.Header, auth.Value),
	)
}
