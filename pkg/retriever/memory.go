package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"
)

// DefaultEmbeddingModel is used when no embedding model is configured.
const DefaultEmbeddingModel = "text-embedding-3-small"

// Memory is an in-process retriever over a fixed document corpus.
// Embed vectorizes the whole corpus through the provided client; Retrieve
// embeds the query with the same client and ranks by cosine similarity.
//
// Memory is not safe for concurrent use; callers needing that must wrap it
// with their own lock, matching the wrapper's own concurrency contract.
type Memory struct {
	docs       []Document
	model      string
	logger     *zap.Logger
	vectors    [][]float32
	dimensions int

	// client is captured by Embed so Retrieve can vectorize queries.
	client EmbeddingClient
}

// MemoryOption configures a Memory retriever.
type MemoryOption func(*Memory)

// WithEmbeddingModel overrides the embedding model name.
func WithEmbeddingModel(model string) MemoryOption {
	return func(m *Memory) { m.model = model }
}

// WithLogger attaches a logger. Defaults to a no-op logger.
func WithLogger(logger *zap.Logger) MemoryOption {
	return func(m *Memory) { m.logger = logger }
}

// NewMemory creates a retriever over the given documents. Documents without
// an ID are assigned their corpus position.
func NewMemory(docs []Document, opts ...MemoryOption) *Memory {
	m := &Memory{
		docs:   make([]Document, len(docs)),
		model:  DefaultEmbeddingModel,
		logger: zap.NewNop(),
	}
	copy(m.docs, docs)
	for i := range m.docs {
		if m.docs[i].ID == "" {
			m.docs[i].ID = fmt.Sprintf("doc-%d", i)
		}
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.Named("retriever.memory")
	return m
}

// Embed implements Retriever.
func (m *Memory) Embed(ctx context.Context, client EmbeddingClient) (any, error) {
	if client == nil {
		return nil, fmt.Errorf("embedding client is required")
	}
	if len(m.docs) == 0 {
		return nil, fmt.Errorf("no documents to embed")
	}

	inputs := make([]string, len(m.docs))
	for i, d := range m.docs {
		inputs[i] = d.Content
	}

	vectors, err := client.CreateEmbeddings(ctx, inputs, m.model)
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if len(vectors) != len(m.docs) {
		return nil, fmt.Errorf("embed corpus: got %d vectors for %d documents", len(vectors), len(m.docs))
	}

	m.vectors = vectors
	m.dimensions = len(vectors[0])
	m.client = client

	m.logger.Info("corpus embedded",
		zap.Int("documents", len(m.docs)),
		zap.Int("dimensions", m.dimensions),
		zap.String("model", m.model))

	return &EmbedStats{
		Documents:  len(m.docs),
		Dimensions: m.dimensions,
		Model:      m.model,
	}, nil
}

// HasEmbedding implements Retriever.
func (m *Memory) HasEmbedding() bool {
	return len(m.vectors) == len(m.docs) && len(m.vectors) > 0
}

// Retrieve implements Retriever.
func (m *Memory) Retrieve(ctx context.Context, query string, topK int) ([]Document, error) {
	if !m.HasEmbedding() {
		return nil, fmt.Errorf("corpus has no embeddings, call Embed first")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vectors, err := m.client.CreateEmbeddings(ctx, []string{query}, m.model)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed query: empty response")
	}
	queryVec := vectors[0]

	ranked := make([]Document, len(m.docs))
	copy(ranked, m.docs)
	for i := range ranked {
		ranked[i].Score = cosineSimilarity(queryVec, m.vectors[i])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if topK > len(ranked) {
		topK = len(ranked)
	}
	return ranked[:topK], nil
}

// cosineSimilarity returns the cosine of the angle between a and b,
// or 0 when either vector is zero-length or the lengths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Ensure Memory implements Retriever at compile time.
var _ Retriever = (*Memory)(nil)
