package retriever

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/hoo-dkwozd/hoorag/pkg/database"
)

// Postgres is a retriever backed by a pgvector document store. Documents are
// added via AddDocuments, vectorized in place by Embed, and ranked on the
// database side by cosine distance.
//
// Like the other retrievers, Postgres is not safe for concurrent use.
type Postgres struct {
	db     *database.DB
	model  string
	logger *zap.Logger

	// client is captured by Embed so Retrieve can vectorize queries.
	client   EmbeddingClient
	embedded bool
}

// PostgresOption configures a Postgres retriever.
type PostgresOption func(*Postgres)

// WithPostgresEmbeddingModel overrides the embedding model name.
func WithPostgresEmbeddingModel(model string) PostgresOption {
	return func(p *Postgres) { p.model = model }
}

// WithPostgresLogger attaches a logger. Defaults to a no-op logger.
func WithPostgresLogger(logger *zap.Logger) PostgresOption {
	return func(p *Postgres) { p.logger = logger }
}

// NewPostgres creates a retriever over an existing document store connection.
// The schema must already be migrated (database.RunMigrations).
func NewPostgres(db *database.DB, opts ...PostgresOption) *Postgres {
	p := &Postgres{
		db:     db,
		model:  DefaultEmbeddingModel,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.logger = p.logger.Named("retriever.postgres")
	return p
}

// AddDocuments inserts documents into the store without embeddings.
// A later Embed pass vectorizes them.
func (p *Postgres) AddDocuments(ctx context.Context, docs []Document) error {
	for _, d := range docs {
		if _, err := p.db.Exec(ctx,
			`INSERT INTO documents (content) VALUES ($1)`, d.Content); err != nil {
			return fmt.Errorf("insert document: %w", err)
		}
	}
	p.logger.Debug("documents added", zap.Int("count", len(docs)))
	return nil
}

// Embed implements Retriever. It vectorizes every document that does not yet
// have an embedding and records the client for query-time use.
func (p *Postgres) Embed(ctx context.Context, client EmbeddingClient) (any, error) {
	if client == nil {
		return nil, fmt.Errorf("embedding client is required")
	}

	rows, err := p.db.Query(ctx,
		`SELECT id, content FROM documents WHERE embedding IS NULL ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("load pending documents: %w", err)
	}

	var ids []int64
	var contents []string
	for rows.Next() {
		var id int64
		var content string
		if err := rows.Scan(&id, &content); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan pending document: %w", err)
		}
		ids = append(ids, id)
		contents = append(contents, content)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load pending documents: %w", err)
	}

	dimensions := 0
	if len(contents) > 0 {
		vectors, err := client.CreateEmbeddings(ctx, contents, p.model)
		if err != nil {
			return nil, fmt.Errorf("embed documents: %w", err)
		}
		if len(vectors) != len(contents) {
			return nil, fmt.Errorf("embed documents: got %d vectors for %d documents", len(vectors), len(contents))
		}
		dimensions = len(vectors[0])

		for i, id := range ids {
			if _, err := p.db.Exec(ctx,
				`UPDATE documents SET embedding = $1::vector WHERE id = $2`,
				vectorLiteral(vectors[i]), id); err != nil {
				return nil, fmt.Errorf("store embedding: %w", err)
			}
		}
	}

	var total int
	if err := p.db.QueryRow(ctx,
		`SELECT count(*) FROM documents WHERE embedding IS NOT NULL`).Scan(&total); err != nil {
		return nil, fmt.Errorf("count embedded documents: %w", err)
	}
	if total == 0 {
		return nil, fmt.Errorf("no documents to embed")
	}

	p.client = client
	p.embedded = true

	p.logger.Info("documents embedded",
		zap.Int("new", len(ids)),
		zap.Int("total", total),
		zap.String("model", p.model))

	return &EmbedStats{
		Documents:  total,
		Dimensions: dimensions,
		Model:      p.model,
	}, nil
}

// HasEmbedding implements Retriever.
func (p *Postgres) HasEmbedding() bool {
	return p.embedded
}

// Retrieve implements Retriever. Ranking happens in the database by cosine
// distance over the stored vectors.
func (p *Postgres) Retrieve(ctx context.Context, query string, topK int) ([]Document, error) {
	if !p.embedded {
		return nil, fmt.Errorf("store has no embeddings, call Embed first")
	}
	if topK <= 0 {
		topK = DefaultTopK
	}

	vectors, err := p.client.CreateEmbeddings(ctx, []string{query}, p.model)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("embed query: empty response")
	}
	queryVec := vectorLiteral(vectors[0])

	rows, err := p.db.Query(ctx,
		`SELECT id, content, 1 - (embedding <=> $1::vector) AS score
		   FROM documents
		  WHERE embedding IS NOT NULL
		  ORDER BY embedding <=> $1::vector
		  LIMIT $2`, queryVec, topK)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id int64
		var doc Document
		if err := rows.Scan(&id, &doc.Content, &doc.Score); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		doc.ID = strconv.FormatInt(id, 10)
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}

	return docs, nil
}

// vectorLiteral renders a vector in pgvector's text input format.
func vectorLiteral(v []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, f := range v {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(f), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}

// Ensure Postgres implements Retriever at compile time.
var _ Retriever = (*Postgres)(nil)
