package document

import (
	"context"

	"github.com/futig/docqa-backend/internal/entity"
)

// TextExtractor never fails; unreadable files yield an empty string
type TextExtractor interface {
	Extract(ctx context.Context, file *entity.SourceFile) string
}

type FileStore interface {
	Save(name string, content []byte) (string, error)
	Remove(path string) error
}

type Answerer interface {
	Answer(ctx context.Context, question string, docs []*entity.Document) (string, error)
	Name() string
}
