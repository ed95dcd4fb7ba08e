package extraction

import (
	"context"
	"fmt"
	"strings"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// DefaultMaxOCRPages bounds OCR work on scanned PDFs
const DefaultMaxOCRPages = 3

// PDFReader returns the embedded text layer when there is one and falls
// back to OCR of the first pages otherwise.
type PDFReader struct {
	textLayer  TextLayer
	rasterizer Rasterizer
	ocr        OCREngine
	maxPages   int
}

func NewPDFReader(textLayer TextLayer, rasterizer Rasterizer, ocr OCREngine, maxPages int) *PDFReader {
	if maxPages <= 0 {
		maxPages = DefaultMaxOCRPages
	}
	return &PDFReader{
		textLayer:  textLayer,
		rasterizer: rasterizer,
		ocr:        ocr,
		maxPages:   maxPages,
	}
}

func (r *PDFReader) Extract(ctx context.Context, file *entity.SourceFile) (string, error) {
	if r.textLayer != nil {
		text, err := r.textLayer.ExtractText(file.Content)
		if err != nil {
			ctxzap.Warn(ctx, "pdf text layer unreadable, falling back to OCR",
				zap.String("file", file.Name),
				zap.Error(err),
			)
		} else if text = NormalizeWhitespace(text); text != "" {
			return text, nil
		}
	}

	return r.recognizePages(ctx, file)
}

func (r *PDFReader) recognizePages(ctx context.Context, file *entity.SourceFile) (string, error) {
	if r.rasterizer == nil || r.ocr == nil {
		return "", errNoOCREngine
	}

	pages, err := r.rasterizer.Rasterize(ctx, file.Content, r.maxPages)
	if err != nil {
		return "", fmt.Errorf("rasterize pdf: %w", err)
	}
	if len(pages) > r.maxPages {
		pages = pages[:r.maxPages]
	}

	ctxzap.Info(ctx, "running OCR for scanned pdf",
		zap.String("file", file.Name),
		zap.Int("pages", len(pages)),
	)

	parts := make([]string, 0, len(pages))
	for i, page := range pages {
		text, err := r.ocr.Recognize(ctx, page)
		if err != nil {
			return "", fmt.Errorf("recognize page %d: %w", i+1, err)
		}
		if text = strings.TrimSpace(text); text != "" {
			parts = append(parts, text)
		}
	}

	return NormalizeWhitespace(strings.Join(parts, " ")), nil
}
