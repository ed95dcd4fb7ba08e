package answer

import (
	"context"

	"github.com/futig/docqa-backend/internal/entity"
)

// Answerer turns a question and the documents in scope into an answer
type Answerer interface {
	Answer(ctx context.Context, question string, docs []*entity.Document) (string, error)
	Name() string
}

// LanguageModel generates text for a prompt
type LanguageModel interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Configured() bool
}
