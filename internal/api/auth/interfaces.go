package auth

import (
	"context"

	"github.com/futig/convai-admin/internal/entity"
)

type AuthUsecase interface {
	Login(ctx context.Context, creds entity.Credentials) (*entity.AuthSession, error)
	SignUp(ctx context.Context, creds entity.Credentials) (*entity.SignUpResult, error)
	Logout(ctx context.Context, accessToken string)
}
