package chat

import (
	"encoding/json"
	"net/http"

	"github.com/futig/docqa-backend/internal/api/middleware"
	"github.com/futig/docqa-backend/internal/entity"
	"github.com/futig/docqa-backend/internal/pkg/logger"
	"github.com/futig/docqa-backend/internal/pkg/response"
	"github.com/go-chi/chi/v5"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase ChatUsecase
}

func NewHandler(usecase ChatUsecase) *Handler {
	return &Handler{usecase: usecase}
}

// ListChats handles GET /chats
func (h *Handler) ListChats(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListChats")

	chats, err := h.usecase.ListChats(ctx, middleware.UserID(ctx))
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	summaries := make([]*entity.ChatSummaryDTO, 0, len(chats))
	for _, c := range chats {
		summaries = append(summaries, toChatSummary(c))
	}

	response.Success(w, &entity.ListChatsResponse{Chats: summaries})
}

// CreateChat handles POST /chats
func (h *Handler) CreateChat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "CreateChat")

	chat, err := h.usecase.CreateChat(ctx, middleware.UserID(ctx))
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.Created(w, &entity.ChatResponse{Chat: toChatDTO(chat)})
}

// GetChat handles GET /chats/{chat_id}
func (h *Handler) GetChat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "GetChat")

	chat, err := h.usecase.GetChat(ctx, middleware.UserID(ctx), chi.URLParam(r, "chat_id"))
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.Success(w, &entity.ChatResponse{Chat: toChatDTO(chat)})
}

// AppendMessage handles POST /chats/{chat_id}/messages
func (h *Handler) AppendMessage(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "AppendMessage")
	chatID := chi.URLParam(r, "chat_id")

	var req entity.AppendMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.usecase.AppendMessage(ctx, middleware.UserID(ctx), chatID, &req); err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.Success(w, &entity.OKResponse{OK: true})
}

// DeleteChat handles DELETE /chats/{chat_id}
func (h *Handler) DeleteChat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DeleteChat")

	if err := h.usecase.DeleteChat(ctx, middleware.UserID(ctx), chi.URLParam(r, "chat_id")); err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.Success(w, &entity.OKResponse{OK: true})
}

// ExportChat handles GET /chats/{chat_id}/export?format=markdown|docx|pdf
func (h *Handler) ExportChat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ExportChat")
	format := entity.ResultFormat(r.URL.Query().Get("format"))

	file, err := h.usecase.ExportChat(ctx, middleware.UserID(ctx), chi.URLParam(r, "chat_id"), format)
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	ctxzap.Info(ctx, "chat exported",
		zap.String("file", file.Name),
		zap.Int("bytes", len(file.Data)),
	)

	response.File(w, file.ContentType, file.Name, file.Data)
}
