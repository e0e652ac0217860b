package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// QueryExecutor is the seam between the knowledge graph and the store
// driver. Tests substitute a recording double; production uses
// Neo4jExecutor.
type QueryExecutor interface {
	ExecuteQuery(ctx context.Context, query string, params map[string]any) (neo4j.EagerResult, error)
	Close(ctx context.Context) error
}
