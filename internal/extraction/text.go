package extraction

import (
	"context"
	"strings"

	"github.com/futig/docqa-backend/internal/entity"
)

// TextReader reads plain text files as UTF-8
type TextReader struct{}

func NewTextReader() *TextReader {
	return &TextReader{}
}

func (r *TextReader) Extract(_ context.Context, file *entity.SourceFile) (string, error) {
	text := strings.ToValidUTF8(string(file.Content), "�")
	return NormalizeWhitespace(text), nil
}
