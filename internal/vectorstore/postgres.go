// Package vectorstore persists document chunks with pgvector embeddings.
package vectorstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

type Document struct {
	ID      int
	Source  string
	Content string
}

type Store struct {
	pool *pgxpool.Pool
}

func New(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping Postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() {
	s.pool.Close()
}

// EnsureSchema creates the pgvector extension and documents table if missing.
// dim must match the embedding model's output dimension.
func (s *Store) EnsureSchema(ctx context.Context, dim int) error {
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("creating vector extension: %w", err)
	}
	ddl := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS documents (
		id SERIAL PRIMARY KEY,
		source TEXT NOT NULL DEFAULT '',
		content TEXT NOT NULL,
		embedding vector(%d) NOT NULL
	)`, dim)
	if _, err := s.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("creating documents table: %w", err)
	}
	return nil
}

// Insert adds a chunk with its embedding.
func (s *Store) Insert(ctx context.Context, content, source string, embedding []float32) error {
	_, err := s.pool.Exec(ctx,
		"INSERT INTO documents (source, content, embedding) VALUES ($1, $2, $3)",
		source, content, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("inserting document: %w", err)
	}
	return nil
}

// SearchSimilar returns the topK nearest documents to the query embedding.
func (s *Store) SearchSimilar(ctx context.Context, queryEmb []float32, topK int) ([]Document, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT id, source, content FROM documents ORDER BY embedding <-> $1 LIMIT $2",
		pgvector.NewVector(queryEmb), topK)
	if err != nil {
		return nil, fmt.Errorf("similarity query failed: %w", err)
	}
	defer rows.Close()

	var results []Document
	for rows.Next() {
		var doc Document
		if err := rows.Scan(&doc.ID, &doc.Source, &doc.Content); err != nil {
			return nil, err
		}
		results = append(results, doc)
	}
	return results, rows.Err()
}
