package rag

import (
	"context"
	"fmt"

	"github.com/imsarthakshrma/Lumora/internal/graph"
	"github.com/imsarthakshrma/Lumora/internal/llm"
)

// GraphSearcher is the slice of the knowledge graph hybrid retrieval
// uses: bounded-depth traversal from a matched entity.
type GraphSearcher interface {
	GetRelated(ctx context.Context, entityType string, properties map[string]any, depth int) ([]graph.Entity, error)
}

// GraphRAG combines vector similarity search with graph traversal:
// documents found by similarity point at graph entities, and the
// neighborhood of those entities enriches the retrieved context.
type GraphRAG struct {
	Vectors  VectorStore
	Graph    GraphSearcher
	Embedder llm.EmbedderClient
}

// HybridResult carries both retrieval legs. No cross-ranking happens
// here; callers (usually a prompt builder) decide how to merge.
type HybridResult struct {
	VectorResults []ScoredDocument `json:"vector_results"`
	GraphResults  []graph.Entity   `json:"graph_results"`
}

func NewGraphRAG(vectors VectorStore, searcher GraphSearcher, embedder llm.EmbedderClient) *GraphRAG {
	return &GraphRAG{
		Vectors:  vectors,
		Graph:    searcher,
		Embedder: embedder,
	}
}

// AddDocuments embeds and indexes documents for later retrieval.
func (r *GraphRAG) AddDocuments(ctx context.Context, docs []Document) error {
	if r.Embedder == nil {
		return fmt.Errorf("no embedder configured")
	}

	vectors := make([][]float32, 0, len(docs))
	for _, doc := range docs {
		vec, err := r.Embedder.Embed(ctx, doc.Content)
		if err != nil {
			return fmt.Errorf("failed to embed document %s: %w", doc.ID, err)
		}
		vectors = append(vectors, vec)
	}

	return r.Vectors.AddDocuments(ctx, docs, vectors)
}

// VectorSearch returns the k most similar documents to the query.
func (r *GraphRAG) VectorSearch(ctx context.Context, query string, k uint64) ([]ScoredDocument, error) {
	if r.Embedder == nil {
		return nil, fmt.Errorf("no embedder configured")
	}

	vec, err := r.Embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return r.Vectors.Search(ctx, vec, k)
}

// GraphSearch traverses the knowledge graph from a matched entity.
func (r *GraphRAG) GraphSearch(ctx context.Context, entityType string, properties map[string]any, depth int) ([]graph.Entity, error) {
	return r.Graph.GetRelated(ctx, entityType, properties, depth)
}

// HybridSearch runs the vector leg, then hops into the graph from every
// hit that references a task, and returns both result sets.
func (r *GraphRAG) HybridSearch(ctx context.Context, query string, kVector uint64, graphDepth int) (*HybridResult, error) {
	vectorResults, err := r.VectorSearch(ctx, query, kVector)
	if err != nil {
		return nil, err
	}

	result := &HybridResult{VectorResults: vectorResults}

	for _, doc := range vectorResults {
		taskID, ok := doc.Metadata["task_id"]
		if !ok || taskID == "" {
			continue
		}
		related, err := r.Graph.GetRelated(ctx, "Task", map[string]any{"task_id": taskID}, graphDepth)
		if err != nil {
			return nil, fmt.Errorf("graph leg failed for task %s: %w", taskID, err)
		}
		result.GraphResults = append(result.GraphResults, related...)
	}

	return result, nil
}
