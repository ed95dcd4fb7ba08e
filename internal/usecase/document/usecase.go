package document

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/futig/docqa-backend/internal/pkg/logger"
	"github.com/futig/docqa-backend/internal/pkg/validator"
	"github.com/futig/docqa-backend/internal/repository"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// DocumentUsecase implements upload, listing and question answering
// over the documents of one chat session
type DocumentUsecase struct {
	docRepo   repository.DocumentRepository
	store     FileStore
	extractor TextExtractor
	answerer  Answerer
	validator *validator.Validator

	// docs is nil when caching is disabled. generations counts
	// invalidations per key so a load that raced an upload is not cached.
	docs        *cache.Cache
	mu          sync.Mutex
	generations map[string]uint64
}

func NewUsecase(
	docRepo repository.DocumentRepository,
	store FileStore,
	extractor TextExtractor,
	answerer Answerer,
	validator *validator.Validator,
	cacheTTL time.Duration,
) *DocumentUsecase {
	uc := &DocumentUsecase{
		docRepo:     docRepo,
		store:       store,
		extractor:   extractor,
		answerer:    answerer,
		validator:   validator,
		generations: make(map[string]uint64),
	}
	if cacheTTL > 0 {
		uc.docs = cache.New(cacheTTL, 2*cacheTTL)
	}
	return uc
}

func cacheKey(ownerID, sessionID string) string {
	return ownerID + "/" + sessionID
}

// Upload stores and extracts every file of the batch in order. A failing
// file is reported in its own result and does not stop the rest.
func (uc *DocumentUsecase) Upload(ctx context.Context, req *entity.UploadRequest) (*entity.UploadResponse, error) {
	if err := uc.validator.ValidateUpload(req.Files); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return nil, entity.ErrMissingSession
	}

	ctx = logger.WithAction(ctx, "upload_documents")
	ctx = logger.AddFields(ctx, zap.String("session_id", req.SessionID), zap.Int("file_count", len(req.Files)))

	key := cacheKey(req.OwnerID, req.SessionID)
	results := make([]*entity.UploadResult, 0, len(req.Files))
	for _, fh := range req.Files {
		result := uc.uploadFile(ctx, req.OwnerID, req.SessionID, fh)
		if result.ID != "" {
			uc.invalidate(key)
		}
		results = append(results, result)
	}

	uc.invalidate(key)

	ctxzap.Info(ctx, "upload batch processed", zap.Int("stored", countStored(results)))

	return &entity.UploadResponse{Docs: results, SessionID: req.SessionID}, nil
}

// ListDocuments returns the session documents newest first, without text
func (uc *DocumentUsecase) ListDocuments(ctx context.Context, ownerID, sessionID string) ([]*entity.Document, error) {
	if strings.TrimSpace(sessionID) == "" {
		return nil, entity.ErrMissingSession
	}

	return uc.docRepo.ListSessionDocuments(ctx, ownerID, sessionID, false)
}

// Ask answers a question from the documents uploaded into the session
func (uc *DocumentUsecase) Ask(ctx context.Context, ownerID, sessionID, question string) (string, error) {
	if strings.TrimSpace(question) == "" {
		return "", fmt.Errorf("%w: question is required", entity.ErrMissingField)
	}
	if strings.TrimSpace(sessionID) == "" {
		return "", entity.ErrMissingSession
	}

	ctx = logger.WithAction(ctx, "ask")
	ctx = logger.AddFields(ctx, zap.String("session_id", sessionID), zap.String("answerer", uc.answerer.Name()))

	docs, err := uc.sessionDocuments(ctx, ownerID, sessionID)
	if err != nil {
		return "", err
	}
	if len(docs) == 0 {
		return "", entity.ErrNoDocuments
	}

	answer, err := uc.answerer.Answer(ctx, question, docs)
	if err != nil {
		return "", err
	}

	ctxzap.Info(ctx, "question answered",
		zap.Int("doc_count", len(docs)),
		zap.Int("answer_length", len(answer)),
	)

	return answer, nil
}

func (uc *DocumentUsecase) sessionDocuments(ctx context.Context, ownerID, sessionID string) ([]*entity.Document, error) {
	key := cacheKey(ownerID, sessionID)
	if uc.docs != nil {
		if cached, ok := uc.docs.Get(key); ok {
			ctxzap.Debug(ctx, "session documents served from cache")
			return cached.([]*entity.Document), nil
		}
	}

	gen := uc.generation(key)
	docs, err := uc.docRepo.ListSessionDocuments(ctx, ownerID, sessionID, true)
	if err != nil {
		return nil, fmt.Errorf("load session documents: %w", err)
	}

	if len(docs) > 0 {
		uc.cacheIfCurrent(key, gen, docs)
	}

	return docs, nil
}

func (uc *DocumentUsecase) generation(key string) uint64 {
	uc.mu.Lock()
	defer uc.mu.Unlock()
	return uc.generations[key]
}

func (uc *DocumentUsecase) invalidate(key string) {
	if uc.docs == nil {
		return
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	uc.generations[key]++
	uc.docs.Delete(key)
}

// cacheIfCurrent stores docs unless the key was invalidated after gen was read
func (uc *DocumentUsecase) cacheIfCurrent(key string, gen uint64, docs []*entity.Document) {
	if uc.docs == nil {
		return
	}
	uc.mu.Lock()
	defer uc.mu.Unlock()
	if uc.generations[key] != gen {
		return
	}
	uc.docs.SetDefault(key, docs)
}
