package core

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/imsarthakshrma/Lumora/internal/graph"
)

// MockGraphStore records every capability call and can fail selectively
// by entity type.
type MockGraphStore struct {
	mu sync.Mutex

	CreatedEntities      []string
	CreatedRelationships []graph.Relationship
	Queries              []string

	FailEntityTypes map[string]error
	QueryResult     []map[string]any
	RelatedResult   []graph.Entity

	nextID int
}

func (m *MockGraphStore) CreateEntity(ctx context.Context, entityType string, properties map[string]any) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.FailEntityTypes[entityType]; ok {
		return "", err
	}
	m.nextID++
	m.CreatedEntities = append(m.CreatedEntities, entityType)
	return fmt.Sprintf("id-%d", m.nextID), nil
}

func (m *MockGraphStore) GetEntity(ctx context.Context, entityType string, properties map[string]any) (*graph.Entity, error) {
	return nil, graph.ErrNotFound
}

func (m *MockGraphStore) CreateRelationship(ctx context.Context, rel graph.Relationship) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedRelationships = append(m.CreatedRelationships, rel)
	return fmt.Sprintf("Created 1 relationship(s): (%s)-[%s]->(%s)", rel.FromType, rel.Type, rel.ToType), nil
}

func (m *MockGraphStore) Query(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Queries = append(m.Queries, query)
	return m.QueryResult, nil
}

func (m *MockGraphStore) GetRelated(ctx context.Context, entityType string, properties map[string]any, depth int) ([]graph.Entity, error) {
	return m.RelatedResult, nil
}

// MockLLM replays queued responses; with an empty queue it returns
// Response. Errs maps a zero-based call index to a forced failure.
type MockLLM struct {
	mu sync.Mutex

	Response      string
	ResponseQueue []string
	Errs          map[int]error
	// FailOnSubstring forces an error whenever the prompt contains the
	// marker, regardless of call order. Useful under concurrency.
	FailOnSubstring string
	FailErr         error
	calls           int
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	call := m.calls
	m.calls++
	if err, ok := m.Errs[call]; ok {
		return "", err
	}
	if m.FailOnSubstring != "" && strings.Contains(prompt, m.FailOnSubstring) {
		return "", m.FailErr
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}
