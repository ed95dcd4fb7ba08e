package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/futig/docqa-backend/internal/pkg/formatter"
	"github.com/futig/docqa-backend/internal/pkg/validator"
	"github.com/futig/docqa-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// ChatUsecase implements chat session business logic.
// All operations are scoped to the owning user.
type ChatUsecase struct {
	chatRepo   repository.ChatRepository
	formatters FormatterFactory
	validator  *validator.Validator
}

func NewUsecase(
	chatRepo repository.ChatRepository,
	formatters FormatterFactory,
	validator *validator.Validator,
) *ChatUsecase {
	return &ChatUsecase{
		chatRepo:   chatRepo,
		formatters: formatters,
		validator:  validator,
	}
}

func (uc *ChatUsecase) ListChats(ctx context.Context, ownerID string) ([]*entity.ChatSession, error) {
	return uc.chatRepo.ListChats(ctx, ownerID)
}

// CreateChat starts a chat titled "New chat" with the assistant greeting
func (uc *ChatUsecase) CreateChat(ctx context.Context, ownerID string) (*entity.ChatSession, error) {
	greeting := &entity.Message{Role: entity.RoleAssistant, Content: entity.ChatGreeting}

	chat, err := uc.chatRepo.CreateChat(ctx, ownerID, entity.DefaultChatTitle, greeting)
	if err != nil {
		return nil, err
	}

	ctxzap.Info(ctx, "chat created", zap.String("chat_id", chat.ID))

	return chat, nil
}

func (uc *ChatUsecase) GetChat(ctx context.Context, ownerID, chatID string) (*entity.ChatSession, error) {
	return uc.chatRepo.GetChat(ctx, ownerID, chatID)
}

func (uc *ChatUsecase) AppendMessage(
	ctx context.Context,
	ownerID, chatID string,
	req *entity.AppendMessageRequest,
) error {
	if err := uc.validator.ValidateAppendMessage(req); err != nil {
		return err
	}

	msg := &entity.Message{Role: req.Role, Content: req.Content}

	rename := func(title string) string {
		if title != entity.DefaultChatTitle || req.Role != entity.RoleUser {
			return title
		}
		return TitleFromMessage(req.Content)
	}

	if err := uc.chatRepo.AppendMessage(ctx, ownerID, chatID, msg, rename); err != nil {
		return err
	}

	ctxzap.Debug(ctx, "message appended",
		zap.String("chat_id", chatID),
		zap.String("role", string(req.Role)),
	)

	return nil
}

func (uc *ChatUsecase) DeleteChat(ctx context.Context, ownerID, chatID string) error {
	if err := uc.chatRepo.DeleteChat(ctx, ownerID, chatID); err != nil {
		return err
	}

	ctxzap.Info(ctx, "chat deleted", zap.String("chat_id", chatID))

	return nil
}

// ExportChat renders the transcript in the requested format
func (uc *ChatUsecase) ExportChat(
	ctx context.Context,
	ownerID, chatID string,
	format entity.ResultFormat,
) (*entity.ExportedFile, error) {
	if format == "" {
		format = entity.FormatMarkdown
	}
	if !format.IsValid() {
		return nil, fmt.Errorf("%w: format %q", entity.ErrInvalidParameter, format)
	}

	chat, err := uc.chatRepo.GetChat(ctx, ownerID, chatID)
	if err != nil {
		return nil, err
	}

	f, err := uc.formatters.Create(format)
	if err != nil {
		return nil, err
	}

	data, err := f.Format(chat)
	if err != nil {
		return nil, fmt.Errorf("format chat: %w", err)
	}

	return &entity.ExportedFile{
		Name:        formatter.FileName(chat, f),
		ContentType: f.ContentType(),
		Data:        data,
	}, nil
}

// TitleFromMessage is the first MaxChatTitleLength characters of the
// trimmed message, or the default title when nothing is left
func TitleFromMessage(content string) string {
	runes := []rune(strings.TrimSpace(content))
	if len(runes) > entity.MaxChatTitleLength {
		runes = runes[:entity.MaxChatTitleLength]
	}
	if len(runes) == 0 {
		return entity.DefaultChatTitle
	}
	return string(runes)
}
