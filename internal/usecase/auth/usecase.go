package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/futig/docqa-backend/internal/pkg/validator"
	"github.com/futig/docqa-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthUsecase implements registration, login and token verification
type AuthUsecase struct {
	userRepo  repository.UserRepository
	tokens    *TokenManager
	validator *validator.Validator
	hashCost  int
}

func NewUsecase(
	userRepo repository.UserRepository,
	tokens *TokenManager,
	validator *validator.Validator,
) *AuthUsecase {
	return &AuthUsecase{
		userRepo:  userRepo,
		tokens:    tokens,
		validator: validator,
		hashCost:  bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (uc *AuthUsecase) Register(ctx context.Context, req *entity.RegisterRequest) (*entity.AuthResult, error) {
	if err := uc.validator.ValidateRegister(req); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.hashCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := uc.userRepo.CreateUser(ctx, strings.TrimSpace(req.Name), normalizeEmail(req.Email), string(hash))
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "user registered", zap.String("user_id", user.ID))

	return uc.issue(user)
}

func (uc *AuthUsecase) Login(ctx context.Context, req *entity.LoginRequest) (*entity.AuthResult, error) {
	if err := uc.validator.ValidateLogin(req); err != nil {
		return nil, err
	}

	user, err := uc.userRepo.GetUserByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, entity.ErrUserNotFound) {
			return nil, entity.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		ctxzap.Debug(ctx, "password mismatch", zap.String("user_id", user.ID))
		return nil, entity.ErrInvalidCredentials
	}

	return uc.issue(user)
}

func (uc *AuthUsecase) Me(ctx context.Context, userID string) (*entity.User, error) {
	return uc.userRepo.GetUserByID(ctx, userID)
}

// Authenticate returns the user id carried by a valid token
func (uc *AuthUsecase) Authenticate(token string) (string, error) {
	userID, err := uc.tokens.Parse(token)
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrUnauthorized, err)
	}
	return userID, nil
}

func (uc *AuthUsecase) issue(user *entity.User) (*entity.AuthResult, error) {
	token, err := uc.tokens.Generate(user.ID)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &entity.AuthResult{Token: token, User: user}, nil
}
