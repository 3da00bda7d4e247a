package llm

import (
	"context"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"go.uber.org/zap"

	"github.com/hoo-dkwozd/hoorag/pkg/logging"
)

// anthropicModels is the model set an AnthropicProvider advertises. The
// Anthropic SDK exposes no models-list call, so the provider reports the
// generations it is known to work with.
var anthropicModels = []string{
	"claude-sonnet-4-5-20250929",
	"claude-opus-4-1-20250805",
	"claude-3-7-sonnet-20250219",
	"claude-3-5-haiku-20241022",
}

// AnthropicProvider implements Provider on top of the Anthropic Messages
// API. It has no embedding capability, so a wrapper built on it cannot
// serve Embed.
type AnthropicProvider struct {
	client *anthropic.Client
	logger *zap.Logger
}

// NewAnthropicProvider creates a provider talking to the Anthropic API.
func NewAnthropicProvider(cfg *ProviderConfig, logger *zap.Logger) (*AnthropicProvider, error) {
	if cfg.APIKey == "" {
		return nil, Errorf(ErrorTypeConfiguration, "API key is required")
	}

	return &AnthropicProvider{
		client: anthropic.NewClient(cfg.APIKey),
		logger: logger.Named("anthropic"),
	}, nil
}

// ListModels implements Provider.
func (p *AnthropicProvider) ListModels(ctx context.Context) ([]string, error) {
	ids := make([]string, len(anthropicModels))
	copy(ids, anthropicModels)
	return ids, nil
}

// Complete implements Provider. System messages map to the request's system
// slot; user and assistant messages map to conversation turns.
func (p *AnthropicProvider) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	mr := anthropic.MessagesRequest{
		Model:     anthropic.Model(req.Model),
		MaxTokens: req.MaxTokens,
	}
	if len(req.Stop) > 0 {
		mr.StopSequences = req.Stop
	}
	if req.Temperature != 0 {
		t := req.Temperature
		mr.Temperature = &t
	}

	for _, m := range req.Messages {
		if m.Role == RoleSystem {
			mr.System = m.Content
			continue
		}
		role := anthropic.RoleUser
		if m.Role == RoleAssistant {
			role = anthropic.RoleAssistant
		}
		text := m.Content
		mr.Messages = append(mr.Messages, anthropic.Message{
			Role: role,
			Content: []anthropic.MessageContent{
				{Type: "text", Text: &text},
			},
		})
	}

	start := time.Now()

	resp, err := p.client.CreateMessages(ctx, mr)
	if err != nil {
		p.logger.Error("messages request failed",
			zap.Duration("elapsed", time.Since(start)),
			zap.String("error", logging.SanitizeError(err)))
		return nil, ClassifyProviderError(err)
	}

	var choices []string
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != nil {
			choices = append(choices, *block.Text)
		}
	}

	usage := Usage{
		PromptTokens:     resp.Usage.InputTokens,
		CompletionTokens: resp.Usage.OutputTokens,
		TotalTokens:      resp.Usage.InputTokens + resp.Usage.OutputTokens,
	}

	p.logger.Info("messages request completed",
		zap.Int("prompt_tokens", usage.PromptTokens),
		zap.Int("completion_tokens", usage.CompletionTokens),
		zap.Duration("elapsed", time.Since(start)))

	return &Completion{
		Choices: choices,
		Usage:   usage,
		Model:   string(resp.Model),
	}, nil
}

// Ensure AnthropicProvider implements Provider at compile time.
var _ Provider = (*AnthropicProvider)(nil)
