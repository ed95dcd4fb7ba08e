package retrieval

import (
	"fmt"
	"strings"

	"github.com/futig/docqa-backend/internal/entity"
)

const (
	// PromptDocumentLimit is how much of each document the model sees
	PromptDocumentLimit = 12000
	// NotFoundPhrase is what the model is told to reply when the documents lack the answer
	NotFoundPhrase = "Not found in the documents"
)

// BuildPrompt labels every document with its position and name, clips its
// text and appends the answering rules and the question.
func BuildPrompt(question string, docs []*entity.Document) string {
	blocks := make([]string, len(docs))
	for i, doc := range docs {
		text := []rune(strings.TrimSpace(doc.ExtractedText))
		if len(text) > PromptDocumentLimit {
			text = text[:PromptDocumentLimit]
		}
		blocks[i] = fmt.Sprintf("Document %d: %s\n---\n%s", i+1, doc.Name, string(text))
	}

	var sb strings.Builder
	sb.WriteString("You are an AI document analyzer.\n")
	sb.WriteString("Answer ONLY using the provided documents.\n")
	fmt.Fprintf(&sb, "If the answer is not found in the documents, say %q.\n\n", NotFoundPhrase)
	sb.WriteString("DOCUMENTS:\n")
	sb.WriteString(strings.Join(blocks, "\n\n"))
	sb.WriteString("\n\nQUESTION:\n")
	sb.WriteString(strings.TrimSpace(question))
	sb.WriteString("\n")

	return sb.String()
}
