package answer

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docqa-backend/internal/config"
	"github.com/futig/docqa-backend/internal/entity"
	"github.com/futig/docqa-backend/internal/retrieval"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	NoReadableTextMessage = retrieval.NoReadableTextMessage
	// NoResponseText replaces an empty model reply
	NoResponseText = "No response text returned."
)

// New picks the answer strategy. In auto mode the model is used when its
// credential is configured and the local heuristic otherwise.
func New(mode string, client LanguageModel) (Answerer, error) {
	switch mode {
	case config.AnswerModeLocal:
		return NewLocal(), nil
	case config.AnswerModeModel:
		if client == nil {
			return nil, fmt.Errorf("answer mode %q requires a language model client", mode)
		}
		return NewModel(client), nil
	case config.AnswerModeAuto, "":
		if client != nil && client.Configured() {
			return NewModel(client), nil
		}
		return NewLocal(), nil
	default:
		return nil, fmt.Errorf("%w: answer mode %q", entity.ErrInvalidParameter, mode)
	}
}

// Local answers with the best-matching chunks of the documents
type Local struct {
	chunker *retrieval.Chunker
	scorer  *retrieval.Scorer
}

func NewLocal() *Local {
	return &Local{
		chunker: retrieval.NewDefaultChunker(),
		scorer:  retrieval.NewScorer(),
	}
}

func (l *Local) Name() string { return config.AnswerModeLocal }

func (l *Local) Answer(ctx context.Context, question string, docs []*entity.Document) (string, error) {
	if !anyText(docs) {
		return NoReadableTextMessage, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.ExtractedText
	}
	fullText := retrieval.CombineTexts(texts)

	chunks := l.chunker.Chunk(fullText)
	scored := l.scorer.Score(question, chunks)

	ctxzap.Debug(ctx, "local answer ranked chunks",
		zap.Int("chunks", len(chunks)),
		zap.Int("matches", len(scored)),
	)

	return retrieval.Compose(question, scored, fullText), nil
}

// Model answers through the external language model
type Model struct {
	client LanguageModel
}

func NewModel(client LanguageModel) *Model {
	return &Model{client: client}
}

func (m *Model) Name() string { return config.AnswerModeModel }

func (m *Model) Answer(ctx context.Context, question string, docs []*entity.Document) (string, error) {
	if !anyText(docs) {
		return NoReadableTextMessage, nil
	}

	text, err := m.client.Generate(ctx, retrieval.BuildPrompt(question, docs))
	if err != nil {
		return "", err
	}

	if strings.TrimSpace(text) == "" {
		return NoResponseText, nil
	}
	return text, nil
}

func anyText(docs []*entity.Document) bool {
	for _, doc := range docs {
		if doc.HasText() {
			return true
		}
	}
	return false
}
