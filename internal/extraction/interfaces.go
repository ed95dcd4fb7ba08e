package extraction

import (
	"context"

	"github.com/futig/docqa-backend/internal/entity"
)

// Reader extracts plain text from one file format
type Reader interface {
	Extract(ctx context.Context, file *entity.SourceFile) (string, error)
}

// OCREngine recognizes English text in an encoded image (PNG, JPEG, ...)
type OCREngine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Rasterizer renders the first maxPages pages of a PDF to encoded images, in page order
type Rasterizer interface {
	Rasterize(ctx context.Context, pdf []byte, maxPages int) ([][]byte, error)
}

// TextLayer reads the embedded text of a PDF without OCR
type TextLayer interface {
	ExtractText(pdf []byte) (string, error)
}
