// Package retriever answers "which indexed passages are nearest to this
// question" by embedding the question and running a KNN query against the
// vector store.
package retriever

import (
	"context"
	"fmt"

	"github.com/ecosage/ecosage/internal/crag"
	"github.com/ecosage/ecosage/internal/llm"
	"github.com/ecosage/ecosage/internal/metrics"
	"github.com/ecosage/ecosage/internal/vectorstore"
)

// Store is the slice of the vector store the retriever needs.
type Store interface {
	SearchSimilar(ctx context.Context, queryEmb []float32, topK int) ([]vectorstore.Document, error)
}

type Retriever struct {
	embedder llm.Embedder
	store    Store
	topK     int
}

func New(embedder llm.Embedder, store Store, topK int) *Retriever {
	if topK <= 0 {
		topK = 4
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// Retrieve returns up to topK candidate passages for the question. An empty
// result is not an error; the cycle treats it as "nothing graded relevant".
func (r *Retriever) Retrieve(ctx context.Context, question string) ([]crag.Document, error) {
	vectors, err := r.embedder.Embed(ctx, []string{question})
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	found, err := r.store.SearchSimilar(ctx, vectors[0], r.topK)
	metrics.ObserveAdapterCall("retrieval", err)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}

	docs := make([]crag.Document, len(found))
	for i, d := range found {
		docs[i] = crag.Document{Content: d.Content, Source: d.Source}
	}
	return docs, nil
}
