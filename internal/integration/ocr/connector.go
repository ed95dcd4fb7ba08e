package ocr

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/futig/docqa-backend/internal/config"
	"github.com/futig/docqa-backend/internal/entity"
	"github.com/futig/docqa-backend/internal/integration/common"
	pkghttp "github.com/futig/docqa-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Connector recognizes images through a remote OCR service
type Connector struct {
	config    config.OCRConfig
	connector *pkghttp.Connector
	logger    *zap.Logger
}

func NewConnector(
	cfg config.OCRConfig,
	logger *zap.Logger,
) *Connector {
	return &Connector{
		connector: common.NewBaseConnector(cfg.HTTPClientConfig, logger),
		config:    cfg,
		logger:    logger,
	}
}

func (c *Connector) Recognize(ctx context.Context, image []byte) (string, error) {
	if len(image) == 0 {
		return "", fmt.Errorf("empty image data provided")
	}

	hash := sha256.Sum256(image)
	checksum := hex.EncodeToString(hash[:])

	ctxzap.Info(ctx, "recognizing image via OCR service",
		zap.String("checksum", checksum),
		zap.Int("size", len(image)),
	)

	prepareBody := func(writer *multipart.Writer) error {
		part, err := writer.CreateFormFile("file", checksum[:16])
		if err != nil {
			return fmt.Errorf("create form file: %w", err)
		}

		if _, err := part.Write(image); err != nil {
			return fmt.Errorf("write file content: %w", err)
		}

		if err := writer.WriteField("lang", Language); err != nil {
			return fmt.Errorf("write lang field: %w", err)
		}

		return nil
	}

	var resp entity.OCRRecognizeResponse
	err := c.connector.DoMultipartRequest(ctx, http.MethodPost, c.config.RecognizeEndpoint, prepareBody, &resp)
	if err != nil {
		return "", fmt.Errorf("failed to recognize image: %w", err)
	}

	ctxzap.Info(ctx, "image recognized successfully", zap.Int("text_length", len(resp.Text)))

	return resp.Text, nil
}
