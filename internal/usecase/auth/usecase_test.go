package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/futig/convai-admin/internal/config"
	"github.com/futig/convai-admin/internal/entity"
	"github.com/futig/convai-admin/internal/pkg/validator"
	pkghttp "github.com/futig/convai-admin/pkg/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeConnector struct {
	users        map[string]*entity.User
	refreshed    *entity.AuthSession
	refreshErr   error
	getUserCalls int
	refreshCalls int
	signedOut    []string
	signUpResult *entity.SignUpResult
	redirectTo   string
}

func (f *fakeConnector) SignInWithPassword(ctx context.Context, email, password string) (*entity.AuthSession, error) {
	if password != "secret1" {
		return nil, entity.ErrInvalidCredentials
	}
	return &entity.AuthSession{AccessToken: "at", RefreshToken: "rt", User: &entity.User{ID: "u1", Email: email}}, nil
}

func (f *fakeConnector) SignUp(ctx context.Context, email, password, redirectTo string) (*entity.SignUpResult, error) {
	f.redirectTo = redirectTo
	return f.signUpResult, nil
}

func (f *fakeConnector) RefreshSession(ctx context.Context, refreshToken string) (*entity.AuthSession, error) {
	f.refreshCalls++
	if f.refreshErr != nil {
		return nil, f.refreshErr
	}
	return f.refreshed, nil
}

func (f *fakeConnector) GetUser(ctx context.Context, accessToken string) (*entity.User, error) {
	f.getUserCalls++
	user, ok := f.users[accessToken]
	if !ok {
		return nil, entity.ErrUnauthorized
	}
	return user, nil
}

func (f *fakeConnector) SignOut(ctx context.Context, accessToken string) error {
	f.signedOut = append(f.signedOut, accessToken)
	return errors.New("upstream down")
}

func newTestUsecase(conn *fakeConnector) *AuthUsecase {
	return NewUsecase(
		conn,
		validator.NewValidator(config.FileUploadConfig{MaxFileSize: 1 << 20, MaxUploadSize: 2 << 20}),
		config.SessionConfig{UserCacheTTL: time.Minute},
		config.CacheConfig{CleanupEvery: time.Minute},
		"https://admin.example.com/login",
		zap.NewNop(),
	)
}

func TestLogin(t *testing.T) {
	uc := newTestUsecase(&fakeConnector{})

	_, err := uc.Login(context.Background(), entity.Credentials{Email: "", Password: "x"})
	assert.ErrorIs(t, err, entity.ErrMissingField)

	_, err = uc.Login(context.Background(), entity.Credentials{Email: "op@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, entity.ErrInvalidCredentials)

	session, err := uc.Login(context.Background(), entity.Credentials{Email: " op@example.com ", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "op@example.com", session.User.Email)
}

func TestLogin_PrimesUserCache(t *testing.T) {
	conn := &fakeConnector{}
	uc := newTestUsecase(conn)

	_, err := uc.Login(context.Background(), entity.Credentials{Email: "op@example.com", Password: "secret1"})
	require.NoError(t, err)

	result, err := uc.Authenticate(context.Background(), "at", "")
	require.NoError(t, err)
	assert.Equal(t, "u1", result.User.ID)
	assert.Zero(t, conn.getUserCalls)
}

func TestSignUp(t *testing.T) {
	conn := &fakeConnector{signUpResult: &entity.SignUpResult{User: &entity.User{ID: "u2"}, ConfirmationRequired: true}}
	uc := newTestUsecase(conn)

	_, err := uc.SignUp(context.Background(), entity.Credentials{Email: "new@example.com", Password: "123"})
	assert.ErrorIs(t, err, entity.ErrInvalidParameter)

	result, err := uc.SignUp(context.Background(), entity.Credentials{Email: "new@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.True(t, result.ConfirmationRequired)
	assert.Equal(t, "https://admin.example.com/login", conn.redirectTo)
}

func TestAuthenticate_CachesUser(t *testing.T) {
	conn := &fakeConnector{users: map[string]*entity.User{"at": {ID: "u1", Email: "op@example.com"}}}
	uc := newTestUsecase(conn)

	for i := 0; i < 3; i++ {
		result, err := uc.Authenticate(context.Background(), "at", "rt")
		require.NoError(t, err)
		assert.Nil(t, result.Session)
	}
	assert.Equal(t, 1, conn.getUserCalls)
	assert.Zero(t, conn.refreshCalls)
}

func TestAuthenticate_RefreshesOnce(t *testing.T) {
	conn := &fakeConnector{
		users:     map[string]*entity.User{},
		refreshed: &entity.AuthSession{AccessToken: "at2", RefreshToken: "rt2", User: &entity.User{ID: "u1", Email: "op@example.com"}},
	}
	uc := newTestUsecase(conn)

	result, err := uc.Authenticate(context.Background(), "expired", "rt")
	require.NoError(t, err)
	require.NotNil(t, result.Session)
	assert.Equal(t, "at2", result.Session.AccessToken)
	assert.Equal(t, 1, conn.refreshCalls)

	result, err = uc.Authenticate(context.Background(), "at2", "rt2")
	require.NoError(t, err)
	assert.Nil(t, result.Session)
	assert.Equal(t, 1, conn.refreshCalls)
}

func TestAuthenticate_RefreshRejected(t *testing.T) {
	conn := &fakeConnector{users: map[string]*entity.User{}, refreshErr: fmt.Errorf("%w: invalid refresh token", entity.ErrUnauthorized)}
	uc := newTestUsecase(conn)

	_, err := uc.Authenticate(context.Background(), "expired", "rt")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestAuthenticate_RefreshOutageKeepsSession(t *testing.T) {
	outage := &pkghttp.NetworkError{Err: context.DeadlineExceeded}
	conn := &fakeConnector{users: map[string]*entity.User{}, refreshErr: outage}
	uc := newTestUsecase(conn)

	_, err := uc.Authenticate(context.Background(), "", "rt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, entity.ErrUnauthorized)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	var netErr *pkghttp.NetworkError
	assert.True(t, errors.As(err, &netErr))
}

func TestAuthenticate_NoTokens(t *testing.T) {
	uc := newTestUsecase(&fakeConnector{})

	_, err := uc.Authenticate(context.Background(), "", "")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
}

func TestAuthenticate_WithoutRefreshToken(t *testing.T) {
	conn := &fakeConnector{users: map[string]*entity.User{}}
	uc := newTestUsecase(conn)

	_, err := uc.Authenticate(context.Background(), "expired", "")
	assert.ErrorIs(t, err, entity.ErrUnauthorized)
	assert.Zero(t, conn.refreshCalls)
}

func TestLogout_EvictsCache(t *testing.T) {
	conn := &fakeConnector{users: map[string]*entity.User{"at": {ID: "u1"}}}
	uc := newTestUsecase(conn)

	_, err := uc.Authenticate(context.Background(), "at", "")
	require.NoError(t, err)

	uc.Logout(context.Background(), "at")
	assert.Equal(t, []string{"at"}, conn.signedOut)

	_, err = uc.Authenticate(context.Background(), "at", "")
	require.NoError(t, err)
	assert.Equal(t, 2, conn.getUserCalls)
}
