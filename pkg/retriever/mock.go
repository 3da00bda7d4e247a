package retriever

import (
	"context"
)

// MockRetriever is a configurable mock for testing RAG orchestration.
// Set the function fields to control behavior in tests.
type MockRetriever struct {
	// RetrieveFunc is called when Retrieve is invoked.
	// If nil, returns an empty slice and nil error.
	RetrieveFunc func(ctx context.Context, query string, topK int) ([]Document, error)

	// EmbedFunc is called when Embed is invoked.
	// If nil, returns an empty *EmbedStats, nil error, and marks the
	// retriever as embedded.
	EmbedFunc func(ctx context.Context, client EmbeddingClient) (any, error)

	// Embedded is returned by HasEmbedding.
	Embedded bool

	// Call tracking for verification
	RetrieveCalls int
	EmbedCalls    int
}

// NewMockRetriever creates a new mock with no embeddings.
func NewMockRetriever() *MockRetriever {
	return &MockRetriever{}
}

// Retrieve implements Retriever.
func (m *MockRetriever) Retrieve(ctx context.Context, query string, topK int) ([]Document, error) {
	m.RetrieveCalls++
	if m.RetrieveFunc != nil {
		return m.RetrieveFunc(ctx, query, topK)
	}
	return []Document{}, nil
}

// Embed implements Retriever.
func (m *MockRetriever) Embed(ctx context.Context, client EmbeddingClient) (any, error) {
	m.EmbedCalls++
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, client)
	}
	m.Embedded = true
	return &EmbedStats{}, nil
}

// HasEmbedding implements Retriever.
func (m *MockRetriever) HasEmbedding() bool {
	return m.Embedded
}

// Reset clears call tracking counters and embedding state.
func (m *MockRetriever) Reset() {
	m.RetrieveCalls = 0
	m.EmbedCalls = 0
	m.Embedded = false
}

// Ensure MockRetriever implements Retriever at compile time.
var _ Retriever = (*MockRetriever)(nil)
