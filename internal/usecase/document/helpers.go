package document

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const defaultMediaType = "application/octet-stream"

func (uc *DocumentUsecase) uploadFile(
	ctx context.Context,
	ownerID, sessionID string,
	fh *multipart.FileHeader,
) *entity.UploadResult {
	mediaType := detectMediaType(fh)
	result := &entity.UploadResult{
		Name:      fh.Filename,
		Size:      fh.Size,
		Type:      mediaType,
		SessionID: sessionID,
	}

	doc, err := uc.storeFile(ctx, ownerID, sessionID, fh, mediaType)
	if err != nil {
		ctxzap.Error(ctx, "failed to store uploaded file",
			zap.String("file", fh.Filename),
			zap.Error(err),
		)
		result.Error = err.Error()
		return result
	}

	result.ID = doc.ID
	result.Size = doc.Size
	result.HasText = doc.HasText()

	return result
}

func (uc *DocumentUsecase) storeFile(
	ctx context.Context,
	ownerID, sessionID string,
	fh *multipart.FileHeader,
	mediaType string,
) (*entity.Document, error) {
	content, err := readFile(fh)
	if err != nil {
		return nil, err
	}

	path, err := uc.store.Save(fh.Filename, content)
	if err != nil {
		return nil, err
	}

	text := uc.extractor.Extract(ctx, &entity.SourceFile{
		Name:      fh.Filename,
		MediaType: mediaType,
		Size:      int64(len(content)),
		Content:   content,
	})

	doc, err := uc.docRepo.CreateDocument(ctx, &entity.Document{
		OwnerID:       ownerID,
		SessionID:     sessionID,
		Name:          fh.Filename,
		MediaType:     mediaType,
		Size:          int64(len(content)),
		StoragePath:   path,
		ExtractedText: strings.TrimSpace(text),
	})
	if err != nil {
		if rmErr := uc.store.Remove(path); rmErr != nil {
			ctxzap.Warn(ctx, "failed to remove orphaned file", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}

	ctxzap.Debug(ctx, "document stored",
		zap.String("document_id", doc.ID),
		zap.String("file", fh.Filename),
		zap.Bool("has_text", doc.HasText()),
	)

	return doc, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open file %s: %w", fh.Filename, err)
	}
	defer src.Close()

	content, err := io.ReadAll(src)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", fh.Filename, err)
	}

	return content, nil
}

// detectMediaType prefers the client-declared type and falls back to the extension
func detectMediaType(fh *multipart.FileHeader) string {
	if ct := fh.Header.Get("Content-Type"); ct != "" && ct != defaultMediaType {
		return ct
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(fh.Filename))); byExt != "" {
		return byExt
	}
	return defaultMediaType
}

func countStored(results []*entity.UploadResult) int {
	n := 0
	for _, r := range results {
		if r.Error == "" {
			n++
		}
	}
	return n
}
