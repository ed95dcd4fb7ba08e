package extraction

import (
	"context"
	"errors"
	"fmt"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var errNoOCREngine = errors.New("ocr engine is not configured")

// ImageReader runs OCR directly on image uploads
type ImageReader struct {
	ocr OCREngine
}

func NewImageReader(ocr OCREngine) *ImageReader {
	return &ImageReader{ocr: ocr}
}

func (r *ImageReader) Extract(ctx context.Context, file *entity.SourceFile) (string, error) {
	if r.ocr == nil {
		return "", errNoOCREngine
	}

	ctxzap.Info(ctx, "running OCR for image",
		zap.String("file", file.Name),
		zap.Int("size", len(file.Content)),
	)

	text, err := r.ocr.Recognize(ctx, file.Content)
	if err != nil {
		return "", fmt.Errorf("recognize image: %w", err)
	}

	return NormalizeWhitespace(text), nil
}
