package authprovider

import (
	"context"
	"strings"
	"sync"

	"github.com/futig/convai-admin/internal/entity"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector accepts any non-empty credentials and issues opaque tokens.
type MockConnector struct {
	mu       sync.Mutex
	sessions map[string]*entity.User // access token -> user
	refresh  map[string]*entity.User // refresh token -> user
	logger   *zap.Logger
}

func NewMockConnector(logger *zap.Logger) *MockConnector {
	return &MockConnector{
		sessions: map[string]*entity.User{},
		refresh:  map[string]*entity.User{},
		logger:   logger,
	}
}

func (m *MockConnector) SignInWithPassword(ctx context.Context, email, password string) (*entity.AuthSession, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, entity.ErrInvalidCredentials
	}

	ctxzap.Info(ctx, "[MOCK] signing in", zap.String("email", email))
	return m.issue(&entity.User{ID: uuid.NewSHA1(uuid.NameSpaceURL, []byte(email)).String(), Email: email, Role: "authenticated"}), nil
}

func (m *MockConnector) SignUp(ctx context.Context, email, password, redirectTo string) (*entity.SignUpResult, error) {
	session, err := m.SignInWithPassword(ctx, email, password)
	if err != nil {
		return nil, err
	}
	return &entity.SignUpResult{User: session.User, Session: session}, nil
}

func (m *MockConnector) RefreshSession(ctx context.Context, refreshToken string) (*entity.AuthSession, error) {
	m.mu.Lock()
	user, ok := m.refresh[refreshToken]
	if ok {
		delete(m.refresh, refreshToken)
	}
	m.mu.Unlock()

	if !ok {
		return nil, entity.ErrUnauthorized
	}
	return m.issue(user), nil
}

func (m *MockConnector) GetUser(ctx context.Context, accessToken string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	user, ok := m.sessions[accessToken]
	if !ok {
		return nil, entity.ErrUnauthorized
	}
	cp := *user
	return &cp, nil
}

func (m *MockConnector) SignOut(ctx context.Context, accessToken string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, accessToken)
	return nil
}

func (m *MockConnector) issue(user *entity.User) *entity.AuthSession {
	m.mu.Lock()
	defer m.mu.Unlock()

	session := &entity.AuthSession{
		AccessToken:  "mock-access-" + uuid.NewString(),
		RefreshToken: "mock-refresh-" + uuid.NewString(),
		ExpiresIn:    3600,
		TokenType:    "bearer",
		User:         user,
	}
	m.sessions[session.AccessToken] = user
	m.refresh[session.RefreshToken] = user
	return session
}
