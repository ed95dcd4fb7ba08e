package document

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/futig/docqa-backend/internal/api/middleware"
	"github.com/futig/docqa-backend/internal/config"
	"github.com/futig/docqa-backend/internal/entity"
	"github.com/futig/docqa-backend/internal/pkg/logger"
	"github.com/futig/docqa-backend/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

const (
	sessionHeader = "X-Session-Id"
	sessionParam  = "sessionId"

	// multipart parts above this size spill to temp files
	multipartMemory = 32 << 20
	// room for multipart framing on top of the payload limit
	multipartOverhead = 1 << 20
)

type Handler struct {
	usecase DocumentUsecase
	cfg     config.FileUploadConfig
}

func NewHandler(usecase DocumentUsecase, cfg config.FileUploadConfig) *Handler {
	return &Handler{usecase: usecase, cfg: cfg}
}

// sessionID reads the session from the header, then the query string
func sessionID(r *http.Request) string {
	if id := strings.TrimSpace(r.Header.Get(sessionHeader)); id != "" {
		return id
	}
	return strings.TrimSpace(r.URL.Query().Get(sessionParam))
}

// Upload handles POST /docs/upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "UploadDocuments")

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize+multipartOverhead)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid form data or size too large", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	session := sessionID(r)
	if session == "" {
		session = strings.TrimSpace(r.FormValue(sessionParam))
	}

	req := &entity.UploadRequest{
		OwnerID:   middleware.UserID(ctx),
		SessionID: session,
		Files:     r.MultipartForm.File["files"],
	}

	ctxzap.Info(ctx, "uploading documents",
		zap.String("session_id", session),
		zap.Int("file_count", len(req.Files)),
	)

	resp, err := h.usecase.Upload(ctx, req)
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.Created(w, resp)
}

// ListMine handles GET /docs/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	docs, err := h.usecase.ListDocuments(ctx, middleware.UserID(ctx), sessionID(r))
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	dtos := make([]*entity.DocumentDTO, 0, len(docs))
	for _, d := range docs {
		dtos = append(dtos, toDocumentDTO(d))
	}

	response.Success(w, &entity.ListDocumentsResponse{Docs: dtos})
}

// Ask handles POST /docs/ask
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Ask")

	var req entity.AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	session := sessionID(r)
	if session == "" {
		session = strings.TrimSpace(req.SessionID)
	}

	answer, err := h.usecase.Ask(ctx, middleware.UserID(ctx), session, req.Question)
	if err != nil {
		response.HandleError(ctx, w, err)
		return
	}

	response.Success(w, &entity.AskResponse{Answer: answer})
}
