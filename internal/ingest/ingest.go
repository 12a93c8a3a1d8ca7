package ingest

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ecosage/ecosage/internal/llm"
)

// Inserter is the slice of the vector store the pipeline needs.
type Inserter interface {
	Insert(ctx context.Context, content, source string, embedding []float32) error
}

// Pipeline chunks, embeds and stores one document at a time.
type Pipeline struct {
	chunker  *SentenceChunker
	embedder llm.Embedder
	store    Inserter
}

func NewPipeline(chunker *SentenceChunker, embedder llm.Embedder, store Inserter) *Pipeline {
	return &Pipeline{chunker: chunker, embedder: embedder, store: store}
}

// IngestText chunks the text, embeds all chunks in one batch, and inserts
// them tagged with source. Returns the number of chunks stored.
func (p *Pipeline) IngestText(ctx context.Context, text, source string) (int, error) {
	chunks := p.chunker.Chunk(text)
	if len(chunks) == 0 {
		return 0, nil
	}

	vectors, err := p.embedder.Embed(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("embedding %d chunks from %s: %w", len(chunks), source, err)
	}

	for i, chunk := range chunks {
		if err := p.store.Insert(ctx, chunk, source, vectors[i]); err != nil {
			return i, fmt.Errorf("storing chunk %d of %s: %w", i, source, err)
		}
	}

	slog.Info("ingested document", "source", source, "chunks", len(chunks))
	return len(chunks), nil
}
