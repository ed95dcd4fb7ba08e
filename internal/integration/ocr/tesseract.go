package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Tesseract recognizes images with the tesseract command line tool
type Tesseract struct {
	path   string
	runner CommandRunner
}

func NewTesseract(path string) *Tesseract {
	return NewTesseractWithRunner(path, ExecRunner{})
}

func NewTesseractWithRunner(path string, runner CommandRunner) *Tesseract {
	if path == "" {
		path = "tesseract"
	}
	return &Tesseract{path: path, runner: runner}
}

func (t *Tesseract) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image data provided")
	}

	dir, err := os.MkdirTemp("", "docqa-ocr-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	input := filepath.Join(dir, "image")
	if err := os.WriteFile(input, image, 0o600); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}

	out, err := t.runner.Run(ctx, t.path, input, "stdout", "-l", Language)
	if err != nil {
		return "", fmt.Errorf("run tesseract: %w", err)
	}

	ctxzap.Debug(ctx, "tesseract finished", zap.Int("text_length", len(out)))

	return string(out), nil
}
