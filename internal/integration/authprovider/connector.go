package authprovider

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/integration/common"
	"github.com/futig/convai-admin/internal/pkg/retry"
	pkghttp "github.com/futig/convai-admin/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	apiKeyHeader = "apikey"

	tokenEndpoint  = "/auth/v1/token"
	signUpEndpoint = "/auth/v1/signup"
	userEndpoint   = "/auth/v1/user"
	logoutEndpoint = "/auth/v1/logout"
)

// Connector is a client of the Supabase GoTrue auth API.
type Connector struct {
	config    config.AuthConnectorConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(cfg config.AuthConnectorConfig, logger *zap.Logger) *Connector {
	return &Connector{
		connector: common.NewVendorConnector("auth", cfg.HTTPClientConfig, common.VendorAuth{Header: apiKeyHeader, Value: cfg.AnonKey}, logger),
		config:    cfg,
		logger:    logger,
	}
}

type passwordRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// signUpResponse covers both shapes GoTrue returns: a session when auto-confirm is on,
// a bare user when email confirmation is pending.
type signUpResponse struct {
	entity.AuthSession
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// SignInWithPassword exchanges email and password for a session.
// POST /auth/v1/token?grant_type=password
func (c *Connector) SignInWithPassword(ctx context.Context, email, password string) (*entity.AuthSession, error) {
	var session entity.AuthSession
	err := c.withRetry(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, tokenEndpoint,
			passwordRequest{Email: email, Password: password}, &session,
			pkghttp.WithQuery(url.Values{"grant_type": {"password"}}),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", mapAuthError(err, entity.ErrInvalidCredentials))
	}

	ctxzap.Debug(ctx, "operator signed in", zap.String("email", email))
	return &session, nil
}

// SignUp registers a new operator. The returned session is nil when the project requires
// email confirmation.
func (c *Connector) SignUp(ctx context.Context, email, password, redirectTo string) (*entity.SignUpResult, error) {
	var opts []pkghttp.RequestOpt
	if redirectTo != "" {
		opts = append(opts, pkghttp.WithQuery(url.Values{"redirect_to": {redirectTo}}))
	}

	var resp signUpResponse
	err := c.connector.DoRequest(ctx, http.MethodPost, signUpEndpoint,
		passwordRequest{Email: email, Password: password}, &resp, opts...)
	if err != nil {
		return nil, fmt.Errorf("sign up: %w", mapSignUpError(err))
	}

	if resp.AccessToken != "" {
		return &entity.SignUpResult{User: resp.User, Session: &resp.AuthSession}, nil
	}

	return &entity.SignUpResult{
		User:                 &entity.User{ID: resp.ID, Email: resp.Email, Role: resp.Role},
		ConfirmationRequired: true,
	}, nil
}

// RefreshSession trades a refresh token for a new token pair.
func (c *Connector) RefreshSession(ctx context.Context, refreshToken string) (*entity.AuthSession, error) {
	var session entity.AuthSession
	err := c.withRetry(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodPost, tokenEndpoint,
			refreshRequest{RefreshToken: refreshToken}, &session,
			pkghttp.WithQuery(url.Values{"grant_type": {"refresh_token"}}),
		)
	})
	if err != nil {
		return nil, fmt.Errorf("refresh session: %w", mapAuthError(err, entity.ErrUnauthorized))
	}

	return &session, nil
}

// GetUser resolves the operator behind an access token.
func (c *Connector) GetUser(ctx context.Context, accessToken string) (*entity.User, error) {
	var user entity.User
	err := c.withRetry(ctx, func() error {
		return c.connector.DoRequest(ctx, http.MethodGet, userEndpoint, nil, &user, bearer(accessToken))
	})
	if err != nil {
		return nil, fmt.Errorf("get user: %w", mapAuthError(err, entity.ErrUnauthorized))
	}

	return &user, nil
}

// SignOut revokes the refresh tokens of the session behind accessToken.
func (c *Connector) SignOut(ctx context.Context, accessToken string) error {
	err := c.connector.DoRequest(ctx, http.MethodPost, logoutEndpoint, nil, nil, bearer(accessToken))
	if err != nil {
		return fmt.Errorf("sign out: %w", mapAuthError(err, entity.ErrUnauthorized))
	}
	return nil
}

func bearer(token string) pkghttp.RequestOpt {
	return pkghttp.WithHeader("Authorization", "Bearer "+token)
}

func (c *Connector) withRetry(ctx context.Context, fn func() error) error {
	return retry.Do(ctx, c.config.Retry, pkghttp.IsTransient, fn)
}

func mapAuthError(err error, sentinel error) error {
	switch pkghttp.StatusCode(err) {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden:
		return errors.Join(sentinel, err)
	}
	return err
}

func mapSignUpError(err error) error {
	switch pkghttp.StatusCode(err) {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return fmt.Errorf("%w: %s", entity.ErrInvalidParameter, providerMessage(err))
	}
	return err
}

// providerMessage pulls the human readable message out of a GoTrue error body.
func providerMessage(err error) string {
	var httpErr *pkghttp.HTTPError
	if !errors.As(err, &httpErr) {
		return err.Error()
	}

	var body struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal([]byte(httpErr.Message), &body) == nil {
		for _, m := range []string{body.Msg, body.Message, body.ErrorDescription} {
			if m != "" {
				return m
			}
		}
	}
	return http.StatusText(httpErr.StatusCode)
}
