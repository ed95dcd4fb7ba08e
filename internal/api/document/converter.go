package document

import "github.com/futig/docqa-backend/internal/entity"

func toDocumentDTO(d *entity.Document) *entity.DocumentDTO {
	return &entity.DocumentDTO{
		ID:        d.ID,
		Name:      d.Name,
		Size:      d.Size,
		Type:      d.MediaType,
		CreatedAt: d.CreatedAt,
		SessionID: d.SessionID,
	}
}
