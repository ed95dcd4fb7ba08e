package response

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/futig/docqa-backend/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{entity.ErrInvalidCredentials, http.StatusUnauthorized, "Invalid email or password"},
		{fmt.Errorf("%w: bad token", entity.ErrUnauthorized), http.StatusUnauthorized, "Unauthorized"},
		{entity.ErrEmailTaken, http.StatusConflict, "Email already registered"},
		{entity.ErrChatNotFound, http.StatusNotFound, "Chat not found"},
		{entity.ErrNoDocuments, http.StatusNotFound, "No documents uploaded in this chat"},
		{entity.ErrMissingSession, http.StatusBadRequest, "sessionId missing"},
		{fmt.Errorf("%w: question is required", entity.ErrMissingField), http.StatusBadRequest, "required field is missing: question is required"},
		{entity.ErrTooManyFiles, http.StatusBadRequest, "too many files"},
		{entity.ErrModelNotConfigured, http.StatusInternalServerError, "Language model API key is not configured"},
		{fmt.Errorf("%w: timeout", entity.ErrModelTransport), http.StatusBadGateway, "Language model request failed"},
		{errors.New("boom"), http.StatusInternalServerError, "Internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(context.Background(), rec, tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body entity.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.message, body.Message)
			assert.Equal(t, http.StatusText(tt.status), body.Error)
		})
	}
}

func TestFile(t *testing.T) {
	rec := httptest.NewRecorder()
	File(rec, "application/pdf", "chat.pdf", []byte("%PDF-"))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="chat.pdf"`, rec.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-", rec.Body.String())
}
