package document

import (
	"context"

	"github.com/futig/docqa-backend/internal/entity"
)

type DocumentUsecase interface {
	Upload(ctx context.Context, req *entity.UploadRequest) (*entity.UploadResponse, error)
	ListDocuments(ctx context.Context, ownerID, sessionID string) ([]*entity.Document, error)
	Ask(ctx context.Context, ownerID, sessionID, question string) (string, error)
}
