package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecosage/ecosage/internal/vectorstore"
)

type fakeEmbedder struct {
	vector []float32
	err    error
}

func (f *fakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return [][]float32{f.vector}, nil
}

type fakeStore struct {
	docs     []vectorstore.Document
	err      error
	gotEmb   []float32
	gotTopK  int
	searches int
}

func (f *fakeStore) SearchSimilar(ctx context.Context, queryEmb []float32, topK int) ([]vectorstore.Document, error) {
	f.searches++
	f.gotEmb = queryEmb
	f.gotTopK = topK
	return f.docs, f.err
}

func TestRetrieveEmbedsAndSearches(t *testing.T) {
	store := &fakeStore{docs: []vectorstore.Document{
		{ID: 1, Content: "bamboo grows fast", Source: "bamboo.txt"},
		{ID: 2, Content: "cotton is thirsty"},
	}}
	r := New(&fakeEmbedder{vector: []float32{0.1, 0.2}}, store, 4)

	docs, err := r.Retrieve(context.Background(), "is bamboo sustainable?")
	require.NoError(t, err)

	assert.Equal(t, []float32{0.1, 0.2}, store.gotEmb)
	assert.Equal(t, 4, store.gotTopK)
	require.Len(t, docs, 2)
	assert.Equal(t, "bamboo grows fast", docs[0].Content)
	assert.Equal(t, "bamboo.txt", docs[0].Source)
	assert.Empty(t, docs[1].Source)
}

func TestRetrieveEmptyIndexIsNotAnError(t *testing.T) {
	r := New(&fakeEmbedder{vector: []float32{0}}, &fakeStore{}, 4)

	docs, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestRetrieveEmbedderFailure(t *testing.T) {
	store := &fakeStore{}
	r := New(&fakeEmbedder{err: errors.New("embed down")}, store, 4)

	_, err := r.Retrieve(context.Background(), "q")
	require.Error(t, err)
	assert.Zero(t, store.searches)
}

func TestNewDefaultsTopK(t *testing.T) {
	store := &fakeStore{}
	r := New(&fakeEmbedder{vector: []float32{0}}, store, 0)

	_, err := r.Retrieve(context.Background(), "q")
	require.NoError(t, err)
	assert.Equal(t, 4, store.gotTopK)
}
