package auth

import (
	"context"

	"github.com/futig/convai-admin/internal/entity"
)

type AuthConnector interface {
	SignInWithPassword(ctx context.Context, email, password string) (*entity.AuthSession, error)
	SignUp(ctx context.Context, email, password, redirectTo string) (*entity.SignUpResult, error)
	RefreshSession(ctx context.Context, refreshToken string) (*entity.AuthSession, error)
	GetUser(ctx context.Context, accessToken string) (*entity.User, error)
	SignOut(ctx context.Context, accessToken string) error
}
