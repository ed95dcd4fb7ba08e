package chat

import "github.com/futig/docqa-backend/internal/entity"

// toChatSummary converts ChatSession entity to ChatSummaryDTO.
// The chat id doubles as the document session id.
func toChatSummary(c *entity.ChatSession) *entity.ChatSummaryDTO {
	return &entity.ChatSummaryDTO{
		ID:        c.ID,
		SessionID: c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func toChatDTO(c *entity.ChatSession) *entity.ChatDTO {
	messages := c.Messages
	if messages == nil {
		messages = []*entity.Message{}
	}
	return &entity.ChatDTO{
		ChatSummaryDTO: *toChatSummary(c),
		Messages:       messages,
	}
}
