package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

type executedQuery struct {
	Query  string
	Params map[string]any
}

// MockExecutor records every query issued against it and replays queued
// results in order. With an empty queue it returns an empty result.
type MockExecutor struct {
	Calls       []executedQuery
	ResultQueue []neo4j.EagerResult
	Err         error
	Closed      bool
}

func (m *MockExecutor) ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error) {
	m.Calls = append(m.Calls, executedQuery{Query: query, Params: params})
	if m.Err != nil {
		return neo4j.EagerResult{}, m.Err
	}
	if len(m.ResultQueue) > 0 {
		result := m.ResultQueue[0]
		m.ResultQueue = m.ResultQueue[1:]
		return result, nil
	}
	return neo4j.EagerResult{Records: []*neo4j.Record{}}, nil
}

func (m *MockExecutor) Close(ctx context.Context) error {
	m.Closed = true
	return nil
}

func singleRecordResult(keys []string, values []interface{}) neo4j.EagerResult {
	return neo4j.EagerResult{
		Records: []*neo4j.Record{
			{Keys: keys, Values: values},
		},
	}
}
