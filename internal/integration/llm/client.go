package llm

import (
	"context"
	"fmt"

	"github.com/futig/docqa-backend/internal/config"
	"github.com/futig/docqa-backend/internal/entity"
	pkghttp "github.com/futig/docqa-backend/pkg/http"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"go.uber.org/zap"
)

// Client talks to an OpenAI-compatible chat completions endpoint.
// The default configuration targets Gemini.
type Client struct {
	client openai.Client
	config config.LLMConfig
	logger *zap.Logger
}

func NewClient(cfg config.LLMConfig, logger *zap.Logger) *Client {
	httpClient := pkghttp.NewClient(
		pkghttp.WithRequestTimeout(cfg.Timeout),
		pkghttp.WithResponseHeaderTimeout(cfg.Timeout),
		pkghttp.WithRequestLogging(),
	)

	return &Client{
		client: openai.NewClient(
			option.WithAPIKey(cfg.APIKey),
			option.WithBaseURL(cfg.BaseURL),
			option.WithHTTPClient(httpClient),
			option.WithMaxRetries(0),
		),
		config: cfg,
		logger: logger,
	}
}

// Configured reports whether a credential is set
func (c *Client) Configured() bool {
	return c.config.APIKey != ""
}

// Generate sends the prompt as a single user message and returns the first
// choice verbatim. An empty string means the model produced no text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.Configured() {
		return "", entity.ErrModelNotConfigured
	}

	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	ctxzap.Info(ctx, "generating answer via language model",
		zap.String("model", c.config.Model),
		zap.Int("prompt_length", len(prompt)),
	)

	completion, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(c.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", entity.ErrModelTransport, err)
	}

	if len(completion.Choices) == 0 {
		ctxzap.Warn(ctx, "language model returned no choices")
		return "", nil
	}

	content := completion.Choices[0].Message.Content
	ctxzap.Info(ctx, "answer generated successfully", zap.Int("answer_length", len(content)))

	return content, nil
}
