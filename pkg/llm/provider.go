// Package llm binds a text-generation provider and an optional retriever
// into a single configure/embed/generate API.
package llm

import (
	"context"
)

// Message roles understood by the generation providers.
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one role-tagged entry in a completion request.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest is the provider-neutral generation request built by the
// wrapper on each Generate call.
type CompletionRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float32   `json:"temperature,omitempty"`
	Stop        []string  `json:"stop,omitempty"`
}

// Usage reports provider token accounting for a single completion.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Completion is the provider-neutral result of a generation call.
type Completion struct {
	Choices []string `json:"choices"`
	Usage   Usage    `json:"usage"`
	Model   string   `json:"model"`
}

// Provider is the generation backend consumed by the wrapper.
// Use this interface for dependency injection to enable mocking in tests.
type Provider interface {
	// ListModels returns the model identifiers valid for the account.
	ListModels(ctx context.Context) ([]string, error)

	// Complete performs one chat completion round-trip.
	Complete(ctx context.Context, req *CompletionRequest) (*Completion, error)
}
