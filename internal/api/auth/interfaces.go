package auth

import (
	"context"

	"github.com/futig/docqa-backend/internal/entity"
)

type AuthUsecase interface {
	Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResult, error)
	Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResult, error)
	Me(ctx context.Context, userID string) (*entity.User, error)
}
