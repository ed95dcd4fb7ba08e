package extraction

import (
	"context"
	"fmt"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/futig/docqa-backend/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Extractor dispatches a file to the reader registered for its format.
// Extraction never fails: unsupported formats, reader errors and panics
// all end up as empty text and a log record.
type Extractor struct {
	readers map[FormatKind]Reader
}

// Deps are the OCR collaborators used by the PDF and image readers
type Deps struct {
	OCR         OCREngine
	Rasterizer  Rasterizer
	TextLayer   TextLayer
	MaxOCRPages int
}

func NewExtractor(deps Deps) *Extractor {
	textLayer := deps.TextLayer
	if textLayer == nil {
		textLayer = NewPDFTextLayer()
	}

	return NewExtractorWithReaders(map[FormatKind]Reader{
		FormatPlainText: NewTextReader(),
		FormatDocx:      NewDocxReader(),
		FormatPDF:       NewPDFReader(textLayer, deps.Rasterizer, deps.OCR, deps.MaxOCRPages),
		FormatImage:     NewImageReader(deps.OCR),
	})
}

func NewExtractorWithReaders(readers map[FormatKind]Reader) *Extractor {
	return &Extractor{readers: readers}
}

func (e *Extractor) Extract(ctx context.Context, file *entity.SourceFile) string {
	kind := Detect(file.MediaType, file.Name)
	ctx = logger.AddFields(logger.WithAction(ctx, "extract_text"),
		zap.String("file", file.Name),
		zap.String("media_type", file.MediaType),
		zap.Stringer("format", kind),
	)

	reader, ok := e.readers[kind]
	if !ok {
		ctxzap.Warn(ctx, "no reader for file format, storing without text")
		return ""
	}

	text, err := e.safeExtract(ctx, reader, file)
	if err != nil {
		ctxzap.Error(ctx, "text extraction failed", zap.Error(err))
		return ""
	}

	ctxzap.Debug(ctx, "text extracted", zap.Int("chars", len(text)))
	return text
}

func (e *Extractor) safeExtract(ctx context.Context, reader Reader, file *entity.SourceFile) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = fmt.Errorf("reader panic: %v", r)
		}
	}()

	return reader.Extract(ctx, file)
}
