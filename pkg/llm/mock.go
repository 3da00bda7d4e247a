package llm

import (
	"context"
)

// MockProvider is a configurable mock generation provider for testing.
// Set the function fields to control behavior in tests.
type MockProvider struct {
	// ListModelsFunc is called when ListModels is invoked.
	// If nil, returns Models (or an empty slice) and nil error.
	ListModelsFunc func(ctx context.Context) ([]string, error)

	// CompleteFunc is called when Complete is invoked.
	// If nil, returns a single empty choice and nil error.
	CompleteFunc func(ctx context.Context, req *CompletionRequest) (*Completion, error)

	// CreateEmbeddingsFunc is called when CreateEmbeddings is invoked.
	// If nil, returns one zero vector per input and nil error.
	CreateEmbeddingsFunc func(ctx context.Context, inputs []string, model string) ([][]float32, error)

	// Models is returned by ListModels when ListModelsFunc is nil.
	Models []string

	// Call tracking for verification
	ListModelsCalls       int
	CompleteCalls         int
	CreateEmbeddingsCalls int

	// LastRequest records the most recent Complete request.
	LastRequest *CompletionRequest
}

// NewMockProvider creates a mock advertising the given model identifiers.
func NewMockProvider(models ...string) *MockProvider {
	return &MockProvider{Models: models}
}

// ListModels implements Provider.
func (m *MockProvider) ListModels(ctx context.Context) ([]string, error) {
	m.ListModelsCalls++
	if m.ListModelsFunc != nil {
		return m.ListModelsFunc(ctx)
	}
	return m.Models, nil
}

// Complete implements Provider.
func (m *MockProvider) Complete(ctx context.Context, req *CompletionRequest) (*Completion, error) {
	m.CompleteCalls++
	m.LastRequest = req
	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, req)
	}
	return &Completion{Choices: []string{""}}, nil
}

// CreateEmbeddings satisfies the retriever embedding capability.
func (m *MockProvider) CreateEmbeddings(ctx context.Context, inputs []string, model string) ([][]float32, error) {
	m.CreateEmbeddingsCalls++
	if m.CreateEmbeddingsFunc != nil {
		return m.CreateEmbeddingsFunc(ctx, inputs, model)
	}
	vectors := make([][]float32, len(inputs))
	for i := range vectors {
		vectors[i] = make([]float32, 3)
	}
	return vectors, nil
}

// Reset clears call tracking.
func (m *MockProvider) Reset() {
	m.ListModelsCalls = 0
	m.CompleteCalls = 0
	m.CreateEmbeddingsCalls = 0
	m.LastRequest = nil
}

// Ensure MockProvider implements Provider at compile time.
var _ Provider = (*MockProvider)(nil)
