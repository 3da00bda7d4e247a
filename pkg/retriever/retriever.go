// Package retriever defines the retrieval capability consumed by the LLM
// wrapper, plus concrete backends (in-memory, Postgres/pgvector, Redis cache).
package retriever

import (
	"context"
)

// EmbeddingClient is the slice of the provider handle a retriever needs to
// generate embeddings. The wrapper's provider satisfies this when the
// underlying API supports embeddings.
type EmbeddingClient interface {
	// CreateEmbeddings generates embedding vectors for multiple inputs.
	CreateEmbeddings(ctx context.Context, inputs []string, model string) ([][]float32, error)
}

// Document is a single retrieved record, ordered by relevance.
type Document struct {
	ID      string  `json:"id"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// DefaultTopK is the retrieval depth applied when callers pass topK <= 0.
const DefaultTopK = 10

// Retriever is the capability a retrieval backend must satisfy to be used
// for RAG. Implementations own ranking; the wrapper never inspects the
// embedding payload returned by Embed.
type Retriever interface {
	// Retrieve returns the topK most relevant documents for the query,
	// best match first. Implementations must treat topK <= 0 as DefaultTopK.
	Retrieve(ctx context.Context, query string, topK int) ([]Document, error)

	// Embed generates and stores embeddings using the supplied client,
	// returning a backend-specific payload describing what was embedded.
	Embed(ctx context.Context, client EmbeddingClient) (any, error)

	// HasEmbedding reports whether a prior Embed succeeded and produced
	// usable artifacts. Must be false before any Embed call.
	HasEmbedding() bool
}

// EmbedStats is the payload returned by the built-in retrievers' Embed.
type EmbedStats struct {
	Documents  int    `json:"documents"`
	Dimensions int    `json:"dimensions"`
	Model      string `json:"model"`
}
