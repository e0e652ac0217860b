package rag

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"

	"github.com/imsarthakshrma/Lumora/internal/config"
)

// Document is one retrievable text unit. Metadata keys like task_id
// link a document back to graph entities for hybrid retrieval.
type Document struct {
	ID       string            `json:"id"`
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ScoredDocument is a search hit with its similarity score.
type ScoredDocument struct {
	Document
	Score float32 `json:"score"`
}

// VectorStore is the similarity-search surface GraphRAG needs.
type VectorStore interface {
	EnsureCollection(ctx context.Context) error
	AddDocuments(ctx context.Context, docs []Document, vectors [][]float32) error
	Search(ctx context.Context, vector []float32, limit uint64) ([]ScoredDocument, error)
}

// QdrantStore implements VectorStore over a Qdrant collection.
type QdrantStore struct {
	client     *qdrant.Client
	collection string
	vectorSize uint64
}

func NewQdrantStore(cfg config.QdrantConfig) (*QdrantStore, error) {
	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   cfg.Host,
		Port:   cfg.Port,
		APIKey: cfg.APIKey,
		UseTLS: cfg.UseTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Qdrant: %w", err)
	}
	return &QdrantStore{
		client:     client,
		collection: cfg.Collection,
		vectorSize: cfg.VectorSize,
	}, nil
}

// EnsureCollection creates the collection when it does not exist yet.
func (s *QdrantStore) EnsureCollection(ctx context.Context) error {
	if info, err := s.client.GetCollectionInfo(ctx, s.collection); err == nil && info != nil {
		return nil
	}

	err := s.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     s.vectorSize,
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create collection %s: %w", s.collection, err)
	}
	return nil
}

func (s *QdrantStore) AddDocuments(ctx context.Context, docs []Document, vectors [][]float32) error {
	if len(docs) != len(vectors) {
		return fmt.Errorf("document/vector count mismatch: %d vs %d", len(docs), len(vectors))
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for i, doc := range docs {
		payload := map[string]any{"content": doc.Content}
		for k, v := range doc.Metadata {
			payload[k] = v
		}

		id := doc.ID
		if id == "" {
			id = uuid.New().String()
		}

		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewIDUUID(id),
			Vectors: qdrant.NewVectors(vectors[i]...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	wait := true
	_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Wait:           &wait,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert points: %w", err)
	}
	return nil
}

func (s *QdrantStore) Search(ctx context.Context, vector []float32, limit uint64) ([]ScoredDocument, error) {
	hits, err := s.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: s.collection,
		Query:          qdrant.NewQuery(vector...),
		Limit:          &limit,
		WithPayload: &qdrant.WithPayloadSelector{
			SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("vector search failed: %w", err)
	}

	results := make([]ScoredDocument, 0, len(hits))
	for _, hit := range hits {
		doc := ScoredDocument{Score: hit.Score}
		doc.Metadata = map[string]string{}
		for k, v := range hit.Payload {
			if k == "content" {
				doc.Content = v.GetStringValue()
				continue
			}
			doc.Metadata[k] = v.GetStringValue()
		}
		if id := hit.Id.GetUuid(); id != "" {
			doc.ID = id
		}
		results = append(results, doc)
	}
	return results, nil
}
