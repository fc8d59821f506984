package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// AuthResult is the operator behind a request. Session is set only when the tokens
// were refreshed and the caller must hand the new pair back to the browser.
type AuthResult struct {
	User    *entity.User
	Session *entity.AuthSession
}

// AuthUsecase implements operator sign-in and per-request session checks
type AuthUsecase struct {
	connector         AuthConnector
	validator         *validator.Validator
	users             *cache.Cache
	userTTL           time.Duration
	signUpRedirectURL string
	logger            *zap.Logger
}

func NewUsecase(
	connector AuthConnector,
	validator *validator.Validator,
	sessionCfg config.SessionConfig,
	cacheCfg config.CacheConfig,
	signUpRedirectURL string,
	logger *zap.Logger,
) *AuthUsecase {
	return &AuthUsecase{
		connector:         connector,
		validator:         validator,
		users:             cache.New(sessionCfg.UserCacheTTL, cacheCfg.CleanupEvery),
		userTTL:           sessionCfg.UserCacheTTL,
		signUpRedirectURL: signUpRedirectURL,
		logger:            logger,
	}
}

func (uc *AuthUsecase) Login(ctx context.Context, creds entity.Credentials) (*entity.AuthSession, error) {
	if err := uc.validator.ValidateCredentials(&creds); err != nil {
		return nil, err
	}

	session, err := uc.connector.SignInWithPassword(ctx, creds.Email, creds.Password)
	if err != nil {
		return nil, err
	}

	if session.User != nil {
		uc.remember(session.AccessToken, session.User)
	}

	ctxzap.Info(ctx, "operator logged in", zap.String("email", creds.Email))
	return session, nil
}

func (uc *AuthUsecase) SignUp(ctx context.Context, creds entity.Credentials) (*entity.SignUpResult, error) {
	if err := uc.validator.ValidateSignUp(&creds); err != nil {
		return nil, err
	}

	result, err := uc.connector.SignUp(ctx, creds.Email, creds.Password, uc.signUpRedirectURL)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "operator signed up",
		zap.String("email", creds.Email),
		zap.Bool("confirmation_required", result.ConfirmationRequired),
	)
	return result, nil
}

// Authenticate resolves the operator behind accessToken. An expired access token is
// refreshed once with refreshToken.
func (uc *AuthUsecase) Authenticate(ctx context.Context, accessToken, refreshToken string) (*AuthResult, error) {
	if accessToken == "" && refreshToken == "" {
		return nil, entity.ErrUnauthorized
	}

	if accessToken != "" {
		user, err := uc.lookupUser(ctx, accessToken)
		if err == nil {
			return &AuthResult{User: user}, nil
		}
		if !errors.Is(err, entity.ErrUnauthorized) || refreshToken == "" {
			return nil, err
		}
		ctxzap.Debug(ctx, "access token rejected, refreshing session")
	}

	// Rejected refresh tokens arrive as ErrUnauthorized; outages pass through unchanged.
	session, err := uc.connector.RefreshSession(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	if accessToken != "" {
		uc.users.Delete(tokenKey(accessToken))
	}

	user := session.User
	if user == nil {
		user, err = uc.lookupUser(ctx, session.AccessToken)
		if err != nil {
			return nil, err
		}
	} else {
		uc.remember(session.AccessToken, user)
	}

	ctxzap.Info(ctx, "operator session refreshed", zap.String("email", user.Email))
	return &AuthResult{User: user, Session: session}, nil
}

func (uc *AuthUsecase) lookupUser(ctx context.Context, accessToken string) (*entity.User, error) {
	key := tokenKey(accessToken)
	if cached, ok := uc.users.Get(key); ok {
		return cached.(*entity.User), nil
	}

	user, err := uc.connector.GetUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	uc.remember(accessToken, user)
	return user, nil
}

// remember caches user for accessToken. A zero TTL disables the cache.
func (uc *AuthUsecase) remember(accessToken string, user *entity.User) {
	if uc.userTTL <= 0 {
		return
	}
	uc.users.Set(tokenKey(accessToken), user, uc.userTTL)
}

// Logout revokes the session upstream and forgets the cached user. Upstream failures are
// logged only: the browser cookies are cleared either way.
func (uc *AuthUsecase) Logout(ctx context.Context, accessToken string) {
	if accessToken == "" {
		return
	}

	uc.users.Delete(tokenKey(accessToken))

	if err := uc.connector.SignOut(ctx, accessToken); err != nil {
		ctxzap.Warn(ctx, "failed to revoke session upstream", zap.Error(err))
	}
}

// tokenKey keeps raw tokens out of the cache keys.
func tokenKey(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
