package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeEmbeddingClient maps known texts to fixed vectors.
type fakeEmbeddingClient struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (f *fakeEmbeddingClient) CreateEmbeddings(ctx context.Context, inputs []string, model string) ([][]float32, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		v, ok := f.vectors[in]
		if !ok {
			v = []float32{0, 0, 0}
		}
		out[i] = v
	}
	return out, nil
}

func newFakeClient() *fakeEmbeddingClient {
	return &fakeEmbeddingClient{
		vectors: map[string][]float32{
			"cats are mammals":   {1, 0, 0},
			"dogs are mammals":   {0.9, 0.1, 0},
			"go is a language":   {0, 0, 1},
			"tell me about cats": {0.95, 0.05, 0},
		},
	}
}

func TestMemory_HasEmbeddingFalseBeforeEmbed(t *testing.T) {
	m := NewMemory([]Document{{Content: "cats are mammals"}})

	assert.False(t, m.HasEmbedding())
}

func TestMemory_EmbedReportsStats(t *testing.T) {
	m := NewMemory([]Document{
		{Content: "cats are mammals"},
		{Content: "go is a language"},
	})

	payload, err := m.Embed(context.Background(), newFakeClient())

	require.NoError(t, err)
	stats, ok := payload.(*EmbedStats)
	require.True(t, ok)
	assert.Equal(t, 2, stats.Documents)
	assert.Equal(t, 3, stats.Dimensions)
	assert.Equal(t, DefaultEmbeddingModel, stats.Model)
	assert.True(t, m.HasEmbedding())
}

func TestMemory_EmbedFailure(t *testing.T) {
	m := NewMemory([]Document{{Content: "cats are mammals"}})
	client := newFakeClient()
	client.err = errors.New("quota exceeded")

	_, err := m.Embed(context.Background(), client)

	require.Error(t, err)
	assert.ErrorIs(t, err, client.err)
	assert.False(t, m.HasEmbedding())
}

func TestMemory_EmbedEmptyCorpus(t *testing.T) {
	m := NewMemory(nil)

	_, err := m.Embed(context.Background(), newFakeClient())

	require.Error(t, err)
}

func TestMemory_RetrieveBeforeEmbed(t *testing.T) {
	m := NewMemory([]Document{{Content: "cats are mammals"}})

	_, err := m.Retrieve(context.Background(), "anything", 5)

	require.Error(t, err)
}

func TestMemory_RetrieveRanksByCosineSimilarity(t *testing.T) {
	m := NewMemory([]Document{
		{Content: "go is a language"},
		{Content: "cats are mammals"},
		{Content: "dogs are mammals"},
	})
	client := newFakeClient()

	_, err := m.Embed(context.Background(), client)
	require.NoError(t, err)

	docs, err := m.Retrieve(context.Background(), "tell me about cats", 2)

	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "cats are mammals", docs[0].Content)
	assert.Equal(t, "dogs are mammals", docs[1].Content)
	assert.Greater(t, docs[0].Score, docs[1].Score)
}

func TestMemory_RetrieveDefaultTopK(t *testing.T) {
	docs := make([]Document, 15)
	vectors := map[string][]float32{}
	for i := range docs {
		docs[i] = Document{Content: string(rune('a' + i))}
		vectors[docs[i].Content] = []float32{1, 0, 0}
	}

	m := NewMemory(docs)
	client := &fakeEmbeddingClient{vectors: vectors}
	_, err := m.Embed(context.Background(), client)
	require.NoError(t, err)

	got, err := m.Retrieve(context.Background(), "a", 0)

	require.NoError(t, err)
	assert.Len(t, got, DefaultTopK)
}

func TestMemory_AssignsDocumentIDs(t *testing.T) {
	m := NewMemory([]Document{
		{Content: "cats are mammals"},
		{ID: "custom", Content: "go is a language"},
	})
	_, err := m.Embed(context.Background(), newFakeClient())
	require.NoError(t, err)

	docs, err := m.Retrieve(context.Background(), "cats are mammals", 2)

	require.NoError(t, err)
	ids := []string{docs[0].ID, docs[1].ID}
	assert.Contains(t, ids, "doc-0")
	assert.Contains(t, ids, "custom")
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-9)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-9)
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1}, []float32{1, 2}), "length mismatch")
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0}, []float32{1, 1}), "zero vector")
}
