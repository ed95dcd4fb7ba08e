package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// JSON writes a JSON response
func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Can't change response at this point, just log
			http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		}
	}
}

// Error logs err and writes an error response
func Error(ctx context.Context, w http.ResponseWriter, status int, message string, err error) {
	fields := []zap.Field{zap.Int("status", status)}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if status >= http.StatusInternalServerError {
		ctxzap.Error(ctx, message, fields...)
	} else {
		ctxzap.Warn(ctx, message, fields...)
	}

	JSON(w, status, entity.ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
	})
}

// Success writes a success response
func Success(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 Created response
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// File writes a downloadable attachment
func File(w http.ResponseWriter, contentType, fileName string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// HandleError maps domain errors to HTTP status codes
func HandleError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrUnauthorized):
		Error(ctx, w, http.StatusUnauthorized, "Unauthorized", err)
	case errors.Is(err, entity.ErrInvalidCredentials):
		Error(ctx, w, http.StatusUnauthorized, "Invalid email or password", err)
	case errors.Is(err, entity.ErrEmailTaken):
		Error(ctx, w, http.StatusConflict, "Email already registered", err)
	case errors.Is(err, entity.ErrUserNotFound):
		Error(ctx, w, http.StatusNotFound, "User not found", err)
	case errors.Is(err, entity.ErrChatNotFound):
		Error(ctx, w, http.StatusNotFound, "Chat not found", err)
	case errors.Is(err, entity.ErrNoDocuments):
		Error(ctx, w, http.StatusNotFound, "No documents uploaded in this chat", err)
	case errors.Is(err, entity.ErrMissingSession):
		Error(ctx, w, http.StatusBadRequest, "sessionId missing", err)
	case errors.Is(err, entity.ErrMissingField),
		errors.Is(err, entity.ErrInvalidFormat),
		errors.Is(err, entity.ErrInvalidParameter),
		errors.Is(err, entity.ErrInvalidRole),
		errors.Is(err, entity.ErrInvalidFile),
		errors.Is(err, entity.ErrFileTooLarge),
		errors.Is(err, entity.ErrTooManyFiles),
		errors.Is(err, entity.ErrTotalSizeTooLarge):
		Error(ctx, w, http.StatusBadRequest, err.Error(), err)
	case errors.Is(err, entity.ErrModelNotConfigured):
		Error(ctx, w, http.StatusInternalServerError, "Language model API key is not configured", err)
	case errors.Is(err, entity.ErrModelTransport):
		Error(ctx, w, http.StatusBadGateway, "Language model request failed", err)
	default:
		Error(ctx, w, http.StatusInternalServerError, "Internal server error", err)
	}
}
