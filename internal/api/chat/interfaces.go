package chat

import (
	"context"

	"github.com/futig/docqa-backend/internal/entity"
)

type ChatUsecase interface {
	ListChats(ctx context.Context, ownerID string) ([]*entity.ChatSession, error)
	CreateChat(ctx context.Context, ownerID string) (*entity.ChatSession, error)
	GetChat(ctx context.Context, ownerID, chatID string) (*entity.ChatSession, error)
	AppendMessage(ctx context.Context, ownerID, chatID string, req *entity.AppendMessageRequest) error
	DeleteChat(ctx context.Context, ownerID, chatID string) error
	ExportChat(ctx context.Context, ownerID, chatID string, format entity.ResultFormat) (*entity.ExportedFile, error)
}
