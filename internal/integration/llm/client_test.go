package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/futig/docqa-backend/internal/config"
	"github.com/futig/docqa-backend/internal/entity"
)

type recordedRequest struct {
	path string
	auth string
	body map[string]any
}

func newCompletionServer(t *testing.T, status int, content string, requests *[]recordedRequest) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, _ := io.ReadAll(r.Body)
		var body map[string]any
		_ = json.Unmarshal(raw, &body)
		*requests = append(*requests, recordedRequest{path: r.URL.Path, auth: r.Header.Get("Authorization"), body: body})

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"quota exceeded","type":"rate_limit"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1700000000,
			"model":   "gemini-2.5-flash",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testConfig(baseURL, key string) config.LLMConfig {
	return config.LLMConfig{
		APIKey:  key,
		BaseURL: baseURL + "/",
		Model:   "gemini-2.5-flash",
		Timeout: 5 * time.Second,
	}
}

func TestClient_Generate(t *testing.T) {
	var requests []recordedRequest
	srv := newCompletionServer(t, http.StatusOK, "Paris", &requests)
	client := NewClient(testConfig(srv.URL, "test-key"), zap.NewNop())

	answer, err := client.Generate(context.Background(), "What is the capital?")

	require.NoError(t, err)
	assert.Equal(t, "Paris", answer)
	require.Len(t, requests, 1)
	assert.Equal(t, "/chat/completions", requests[0].path)
	assert.Equal(t, "Bearer test-key", requests[0].auth)
	assert.Equal(t, "gemini-2.5-flash", requests[0].body["model"])

	messages, ok := requests[0].body["messages"].([]any)
	require.True(t, ok)
	require.Len(t, messages, 1)
	assert.Equal(t, "What is the capital?", messages[0].(map[string]any)["content"])
}

func TestClient_NotConfigured(t *testing.T) {
	var requests []recordedRequest
	srv := newCompletionServer(t, http.StatusOK, "unused", &requests)
	client := NewClient(testConfig(srv.URL, ""), zap.NewNop())

	_, err := client.Generate(context.Background(), "q")

	assert.ErrorIs(t, err, entity.ErrModelNotConfigured)
	assert.False(t, client.Configured())
	assert.Empty(t, requests)
}

func TestClient_TransportErrorIsNotRetried(t *testing.T) {
	var requests []recordedRequest
	srv := newCompletionServer(t, http.StatusTooManyRequests, "", &requests)
	client := NewClient(testConfig(srv.URL, "test-key"), zap.NewNop())

	_, err := client.Generate(context.Background(), "q")

	assert.ErrorIs(t, err, entity.ErrModelTransport)
	assert.Len(t, requests, 1)
}

func TestClient_Unreachable(t *testing.T) {
	var requests []recordedRequest
	srv := newCompletionServer(t, http.StatusOK, "", &requests)
	srv.Close()
	client := NewClient(testConfig(srv.URL, "test-key"), zap.NewNop())

	_, err := client.Generate(context.Background(), "q")

	assert.ErrorIs(t, err, entity.ErrModelTransport)
}

func TestMockClient_EchoesQuestion(t *testing.T) {
	answer, err := NewMockClient(zap.NewNop()).Generate(context.Background(), "DOCUMENTS:\nx\n\nQUESTION:\nWhy?\n")

	require.NoError(t, err)
	assert.Equal(t, "[MOCK] answer to: Why?", answer)
}
