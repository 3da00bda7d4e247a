package llm

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/hoo-dkwozd/hoorag/pkg/logging"
	"github.com/hoo-dkwozd/hoorag/pkg/retriever"
)

// defaultEmbeddingModel is used when an embedding call passes no model.
const defaultEmbeddingModel = "text-embedding-3-small"

// ProviderConfig holds settings for constructing a concrete provider.
type ProviderConfig struct {
	APIKey  string // Provider credential
	BaseURL string // Optional override, e.g. an OpenAI-compatible local server
}

// OpenAIProvider implements Provider on top of the OpenAI API.
type OpenAIProvider struct {
	client *openai.Client
	logger *zap.Logger
}

// NewOpenAIProvider creates a provider talking to the OpenAI API or any
// compatible endpoint. Requests carry an X-Request-Id header when the call
// context holds one (see WithRequestID).
func NewOpenAIProvider(cfg *ProviderConfig, logger *zap.Logger) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, Errorf(ErrorTypeConfiguration, "API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &requestIDTransport{base: http.DefaultTransport},
	}

	return &OpenAIProvider{
		client: openai.NewClientWithConfig(clientConfig),
		logger: logger.Named("openai"),
	}, nil
}

// ListModels implements Provider.
func (p *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	list, err := p.client.ListModels(ctx)
	if err != nil {
		return nil, ClassifyProviderError(err)
	}

	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	return ids, nil
}

// Complete implements Provider.
func (p *OpenAIProvider) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	messages := make([]openai.ChatCompletionMessage, len(req.Messages))
	for i, m := range req.Messages {
		messages[i] = openai.ChatCompletionMessage{
			Role:    m.Role,
			Content: m.Content,
		}
	}

	start := time.Now()

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    messages,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Stop:        req.Stop,
	})
	if err != nil {
		p.logger.Error("completion request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, ClassifyProviderError(err)
	}

	choices := make([]string, len(resp.Choices))
	for i, c := range resp.Choices {
		choices[i] = c.Message.Content
	}

	p.logger.Info("completion request completed",
		zap.Int("prompt_tokens", resp.Usage.PromptTokens),
		zap.Int("completion_tokens", resp.Usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &Completion{
		Choices: choices,
		Usage: Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Model: resp.Model,
	}, nil
}

// CreateEmbeddings generates embeddings for multiple inputs. This satisfies
// the retriever's embedding capability.
func (p *OpenAIProvider) CreateEmbeddings(ctx context.Context, inputs []string, model string) ([][]float32, error) {
	if model == "" {
		model = defaultEmbeddingModel
	}

	resp, err := p.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(model),
		Input: inputs,
	})
	if err != nil {
		return nil, ClassifyProviderError(err)
	}

	embeddings := make([][]float32, len(resp.Data))
	for i, d := range resp.Data {
		embeddings[i] = d.Embedding
	}
	return embeddings, nil
}

// Compile-time conformance.
var (
	_ Provider                  = (*OpenAIProvider)(nil)
	_ retriever.EmbeddingClient = (*OpenAIProvider)(nil)
)
