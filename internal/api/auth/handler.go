package auth

import (
	"encoding/json"
	"net/http"

	"github.com/futig/docqa-backend/internal/api/middleware"
	"github.com/futig/docqa-backend/internal/entity"
	"github.com/futig/docqa-backend/internal/pkg/logger"
	"github.com/futig/docqa-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase AuthUsecase
}

func NewHandler(usecase AuthUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// Register handles POST /auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Register")

	var req entity.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	res, err := h.usecase.Register(ctx, &req)
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.Created(w, toAuthResponse("Registered successfully", res))
}

// Login handles POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Login")

	var req entity.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	res, err := h.usecase.Login(ctx, &req)
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "user logged in", zap.String("user_id", res.User.ID))

	response.Success(w, toAuthResponse("Login successful", res))
}

// Me handles GET /auth/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Me")

	user, err := h.usecase.Me(ctx, middleware.UserID(ctx))
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.Success(w, &entity.MeResponse{User: toUserDTO(user)})
}
