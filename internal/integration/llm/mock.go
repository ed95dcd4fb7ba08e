package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockClient answers without any network call, for local runs with ENABLE_MOCKS
type MockClient struct {
	logger *zap.Logger
}

func NewMockClient(logger *zap.Logger) *MockClient {
	return &MockClient{
		logger: logger,
	}
}

func (m *MockClient) Configured() bool { return true }

// Generate echoes the question section of the prompt
func (m *MockClient) Generate(ctx context.Context, prompt string) (string, error) {
	ctxzap.Info(ctx, "[MOCK] generating answer via language model")

	question := prompt
	if idx := strings.LastIndex(prompt, "QUESTION:"); idx >= 0 {
		question = prompt[idx+len("QUESTION:"):]
	}

	return fmt.Sprintf("[MOCK] answer to: %s", strings.TrimSpace(question)), nil
}
