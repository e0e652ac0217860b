package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/imsarthakshrma/Lumora/internal/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVectorStore struct {
	docs       []Document
	vectors    [][]float32
	searchHits []ScoredDocument
}

func (f *fakeVectorStore) EnsureCollection(ctx context.Context) error { return nil }

func (f *fakeVectorStore) AddDocuments(ctx context.Context, docs []Document, vectors [][]float32) error {
	f.docs = append(f.docs, docs...)
	f.vectors = append(f.vectors, vectors...)
	return nil
}

func (f *fakeVectorStore) Search(ctx context.Context, vector []float32, limit uint64) ([]ScoredDocument, error) {
	return f.searchHits, nil
}

type fakeGraph struct {
	related []graph.Entity
	calls   []string
	err     error
}

func (f *fakeGraph) GetRelated(ctx context.Context, entityType string, properties map[string]any, depth int) ([]graph.Entity, error) {
	if id, ok := properties["task_id"].(string); ok {
		f.calls = append(f.calls, id)
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.related, nil
}

type fakeEmbedder struct {
	err error
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []float32{0.1, 0.2, 0.3}, nil
}

func TestAddDocuments(t *testing.T) {
	store := &fakeVectorStore{}
	r := NewGraphRAG(store, &fakeGraph{}, &fakeEmbedder{})

	err := r.AddDocuments(context.Background(), []Document{
		{ID: "d1", Content: "quarterly invoice summary"},
		{ID: "d2", Content: "meeting notes"},
	})

	require.NoError(t, err)
	assert.Len(t, store.docs, 2)
	assert.Len(t, store.vectors, 2)
}

func TestAddDocuments_EmbedderFailure(t *testing.T) {
	r := NewGraphRAG(&fakeVectorStore{}, &fakeGraph{}, &fakeEmbedder{err: errors.New("quota")})

	err := r.AddDocuments(context.Background(), []Document{{ID: "d1", Content: "x"}})
	assert.ErrorContains(t, err, "quota")
}

func TestHybridSearch(t *testing.T) {
	store := &fakeVectorStore{searchHits: []ScoredDocument{
		{Document: Document{ID: "d1", Content: "a", Metadata: map[string]string{"task_id": "t-1"}}, Score: 0.9},
		{Document: Document{ID: "d2", Content: "b"}, Score: 0.5},
	}}
	g := &fakeGraph{related: []graph.Entity{
		{Type: "Person", Properties: map[string]any{"name": "Alice"}},
	}}
	r := NewGraphRAG(store, g, &fakeEmbedder{})

	result, err := r.HybridSearch(context.Background(), "invoices", 3, 2)

	require.NoError(t, err)
	assert.Len(t, result.VectorResults, 2)
	assert.Len(t, result.GraphResults, 1, "only the hit with a task_id hops into the graph")
	assert.Equal(t, []string{"t-1"}, g.calls)
}

func TestHybridSearch_NoEmbedder(t *testing.T) {
	r := NewGraphRAG(&fakeVectorStore{}, &fakeGraph{}, nil)

	_, err := r.HybridSearch(context.Background(), "q", 3, 1)
	assert.ErrorContains(t, err, "no embedder")
}
