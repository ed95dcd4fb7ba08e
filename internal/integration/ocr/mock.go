package ocr

import (
	"context"
	"fmt"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockEngine returns canned text instead of running OCR
type MockEngine struct {
	logger *zap.Logger
}

func NewMockEngine(logger *zap.Logger) *MockEngine {
	return &MockEngine{
		logger: logger,
	}
}

func (m *MockEngine) Recognize(ctx context.Context, image []byte) (string, error) {
	ctxzap.Info(ctx, "[MOCK] recognizing image", zap.Int("size", len(image)))

	return fmt.Sprintf("[MOCK] recognized text from a %d byte image", len(image)), nil
}

// MockRasterizer pretends every PDF has maxPages pages
type MockRasterizer struct {
	logger *zap.Logger
}

func NewMockRasterizer(logger *zap.Logger) *MockRasterizer {
	return &MockRasterizer{
		logger: logger,
	}
}

func (m *MockRasterizer) Rasterize(ctx context.Context, pdf []byte, maxPages int) ([][]byte, error) {
	ctxzap.Info(ctx, "[MOCK] rasterizing pdf", zap.Int("size", len(pdf)), zap.Int("max_pages", maxPages))

	pages := make([][]byte, maxPages)
	for i := range pages {
		pages[i] = []byte(fmt.Sprintf("page-%d", i+1))
	}
	return pages, nil
}
