package retriever_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoo-dkwozd/hoorag/pkg/retriever"
	"github.com/hoo-dkwozd/hoorag/pkg/testhelpers"
)

// axisEmbeddingClient embeds known texts onto fixed axes so cosine ranking
// is fully deterministic.
type axisEmbeddingClient struct {
	vectors map[string][]float32
}

func newAxisClient() *axisEmbeddingClient {
	return &axisEmbeddingClient{
		vectors: map[string][]float32{
			"postgres stores rows":  {1, 0, 0},
			"redis stores keys":     {0, 1, 0},
			"zap logs structurally": {0, 0, 1},
			"how are rows stored?":  {0.9, 0.1, 0},
		},
	}
}

func (c *axisEmbeddingClient) CreateEmbeddings(ctx context.Context, inputs []string, model string) ([][]float32, error) {
	out := make([][]float32, len(inputs))
	for i, in := range inputs {
		v, ok := c.vectors[in]
		if !ok {
			v = []float32{0, 0, 0}
		}
		out[i] = v
	}
	return out, nil
}

func TestPostgres_EmbedAndRetrieve(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.TruncateDocuments(t, testDB.DB)

	ctx := context.Background()
	p := retriever.NewPostgres(testDB.DB)

	assert.False(t, p.HasEmbedding())

	require.NoError(t, p.AddDocuments(ctx, []retriever.Document{
		{Content: "postgres stores rows"},
		{Content: "redis stores keys"},
		{Content: "zap logs structurally"},
	}))

	payload, err := p.Embed(ctx, newAxisClient())
	require.NoError(t, err)

	stats, ok := payload.(*retriever.EmbedStats)
	require.True(t, ok)
	assert.Equal(t, 3, stats.Documents)
	assert.Equal(t, 3, stats.Dimensions)
	assert.True(t, p.HasEmbedding())

	docs, err := p.Retrieve(ctx, "how are rows stored?", 2)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "postgres stores rows", docs[0].Content)
	assert.Equal(t, "redis stores keys", docs[1].Content)
	assert.Greater(t, docs[0].Score, docs[1].Score)
	assert.NotEmpty(t, docs[0].ID)
}

func TestPostgres_EmbedIsIncremental(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.TruncateDocuments(t, testDB.DB)

	ctx := context.Background()
	p := retriever.NewPostgres(testDB.DB)

	require.NoError(t, p.AddDocuments(ctx, []retriever.Document{
		{Content: "postgres stores rows"},
	}))

	_, err := p.Embed(ctx, newAxisClient())
	require.NoError(t, err)

	require.NoError(t, p.AddDocuments(ctx, []retriever.Document{
		{Content: "redis stores keys"},
	}))

	payload, err := p.Embed(ctx, newAxisClient())
	require.NoError(t, err)

	stats := payload.(*retriever.EmbedStats)
	assert.Equal(t, 2, stats.Documents, "second pass embeds only the new row but reports the full store")
}

func TestPostgres_RetrieveBeforeEmbed(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.TruncateDocuments(t, testDB.DB)

	p := retriever.NewPostgres(testDB.DB)

	_, err := p.Retrieve(context.Background(), "anything", 3)

	require.Error(t, err)
}

func TestPostgres_EmbedEmptyStore(t *testing.T) {
	testDB := testhelpers.GetTestDB(t)
	testhelpers.TruncateDocuments(t, testDB.DB)

	p := retriever.NewPostgres(testDB.DB)

	_, err := p.Embed(context.Background(), newAxisClient())

	require.Error(t, err)
	assert.False(t, p.HasEmbedding())
}
