package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
)

// Entity is a typed node read back from the store.
type Entity struct {
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties"`
	ElementID  string         `json:"element_id"`
}

// Relationship describes a typed directed edge whose endpoints are
// resolved by property match at write time. When the endpoint properties
// match several nodes, one edge is created per matching
// (source, destination) pair.
type Relationship struct {
	FromType  string         `json:"from_type"`
	FromProps map[string]any `json:"from_props"`
	Type      string         `json:"rel_type"`
	ToType    string         `json:"to_type"`
	ToProps   map[string]any `json:"to_props"`
	Props     map[string]any `json:"rel_props,omitempty"`
}

// KnowledgeGraph translates domain operations into parameterized Cypher
// against a single executor. Labels and property keys are interpolated
// only after validation; every value is parameter-bound.
type KnowledgeGraph struct {
	exec QueryExecutor
}

func NewKnowledgeGraph(exec QueryExecutor) *KnowledgeGraph {
	return &KnowledgeGraph{exec: exec}
}

// sortedKeys keeps generated clause order stable so that identical
// inputs always build identical query text.
func sortedKeys(props map[string]any) []string {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// CreateEntity creates a new node labelled entityType carrying the given
// properties and returns the store's element id for it. It never
// deduplicates; matching existing nodes first is the caller's job.
func (g *KnowledgeGraph) CreateEntity(ctx context.Context, entityType string, properties map[string]any) (string, error) {
	if err := ValidateLabel(entityType); err != nil {
		return "", err
	}
	if err := validateProperties(properties); err != nil {
		return "", err
	}

	keys := sortedKeys(properties)
	assignments := make([]string, 0, len(keys))
	for _, k := range keys {
		assignments = append(assignments, fmt.Sprintf("%s: $%s", k, k))
	}

	query := fmt.Sprintf("CREATE (e:%s {%s}) RETURN elementId(e) AS id", entityType, strings.Join(assignments, ", "))

	result, err := g.exec.ExecuteQuery(ctx, query, properties)
	if err != nil {
		return "", fmt.Errorf("failed to create %s entity: %w", entityType, err)
	}
	if len(result.Records) == 0 {
		return "", fmt.Errorf("failed to create %s entity: no record returned", entityType)
	}

	id, _ := result.Records[0].Get("id")
	elementID, _ := id.(string)
	return elementID, nil
}

// GetEntity returns the first node of entityType matching all given
// properties (AND semantics). Which node is "first" when several match is
// implementation-defined by the store but stable within one
// configuration; callers needing uniqueness should constrain further.
func (g *KnowledgeGraph) GetEntity(ctx context.Context, entityType string, properties map[string]any) (*Entity, error) {
	if err := ValidateLabel(entityType); err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, ErrNoProperties
	}
	if err := validateProperties(properties); err != nil {
		return nil, err
	}

	keys := sortedKeys(properties)
	conditions := make([]string, 0, len(keys))
	for _, k := range keys {
		conditions = append(conditions, fmt.Sprintf("e.%s = $%s", k, k))
	}

	query := fmt.Sprintf("MATCH (e:%s) WHERE %s RETURN e LIMIT 1", entityType, strings.Join(conditions, " AND "))

	result, err := g.exec.ExecuteQuery(ctx, query, properties)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s entity: %w", entityType, err)
	}
	if len(result.Records) == 0 {
		return nil, ErrNotFound
	}

	value, _ := result.Records[0].Get("e")
	node, ok := value.(dbtype.Node)
	if !ok {
		return nil, fmt.Errorf("failed to get %s entity: unexpected record shape %T", entityType, value)
	}

	return &Entity{
		Type:       entityType,
		Properties: node.Props,
		ElementID:  node.ElementId,
	}, nil
}

// CreateRelationship matches source and destination nodes by property
// and creates one rel.Type edge per matching pair. Parameters are
// namespaced by role (from_/to_/rel_) so that a key shared between the
// two endpoints binds as two distinct values instead of one silently
// overwriting the other.
func (g *KnowledgeGraph) CreateRelationship(ctx context.Context, rel Relationship) (string, error) {
	for _, label := range []string{rel.FromType, rel.Type, rel.ToType} {
		if err := ValidateLabel(label); err != nil {
			return "", err
		}
	}
	if len(rel.FromProps) == 0 || len(rel.ToProps) == 0 {
		return "", ErrNoProperties
	}
	for _, props := range []map[string]any{rel.FromProps, rel.ToProps, rel.Props} {
		if err := validateProperties(props); err != nil {
			return "", err
		}
	}

	params := make(map[string]any, len(rel.FromProps)+len(rel.ToProps)+len(rel.Props))

	fromConditions := make([]string, 0, len(rel.FromProps))
	for _, k := range sortedKeys(rel.FromProps) {
		fromConditions = append(fromConditions, fmt.Sprintf("a.%s = $from_%s", k, k))
		params["from_"+k] = rel.FromProps[k]
	}

	toConditions := make([]string, 0, len(rel.ToProps))
	for _, k := range sortedKeys(rel.ToProps) {
		toConditions = append(toConditions, fmt.Sprintf("b.%s = $to_%s", k, k))
		params["to_"+k] = rel.ToProps[k]
	}

	relAssignment := ""
	if len(rel.Props) > 0 {
		assignments := make([]string, 0, len(rel.Props))
		for _, k := range sortedKeys(rel.Props) {
			assignments = append(assignments, fmt.Sprintf("%s: $rel_%s", k, k))
			params["rel_"+k] = rel.Props[k]
		}
		relAssignment = " {" + strings.Join(assignments, ", ") + "}"
	}

	query := fmt.Sprintf(
		"MATCH (a:%s), (b:%s) WHERE %s AND %s CREATE (a)-[r:%s%s]->(b) RETURN count(r) AS created",
		rel.FromType, rel.ToType,
		strings.Join(fromConditions, " AND "), strings.Join(toConditions, " AND "),
		rel.Type, relAssignment,
	)

	result, err := g.exec.ExecuteQuery(ctx, query, params)
	if err != nil {
		return "", fmt.Errorf("failed to create relationship %s: %w", rel.Type, err)
	}

	created := int64(0)
	if len(result.Records) > 0 {
		if v, ok := result.Records[0].Get("created"); ok {
			created, _ = v.(int64)
		}
	}

	return fmt.Sprintf("Created %d relationship(s): (%s)-[%s]->(%s)", created, rel.FromType, rel.Type, rel.ToType), nil
}

// Query runs a raw Cypher statement with bound parameters and returns
// each record as a map. This is the escape hatch used by the
// question-answering agent; parameters are never interpolated here.
func (g *KnowledgeGraph) Query(ctx context.Context, query string, params map[string]any) ([]map[string]any, error) {
	result, err := g.exec.ExecuteQuery(ctx, query, params)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}

	records := make([]map[string]any, 0, len(result.Records))
	for _, record := range result.Records {
		records = append(records, record.AsMap())
	}
	return records, nil
}

// GetRelated returns the nodes reachable within 1..depth hops of every
// node matching entityType and properties.
func (g *KnowledgeGraph) GetRelated(ctx context.Context, entityType string, properties map[string]any, depth int) ([]Entity, error) {
	if err := ValidateLabel(entityType); err != nil {
		return nil, err
	}
	if len(properties) == 0 {
		return nil, ErrNoProperties
	}
	if err := validateProperties(properties); err != nil {
		return nil, err
	}
	if depth < 1 {
		return nil, ErrInvalidDepth
	}

	keys := sortedKeys(properties)
	conditions := make([]string, 0, len(keys))
	for _, k := range keys {
		conditions = append(conditions, fmt.Sprintf("e.%s = $%s", k, k))
	}

	query := fmt.Sprintf(
		"MATCH path = (e:%s)-[*1..%d]-(related) WHERE %s RETURN DISTINCT related",
		entityType, depth, strings.Join(conditions, " AND "),
	)

	result, err := g.exec.ExecuteQuery(ctx, query, properties)
	if err != nil {
		return nil, fmt.Errorf("failed to get related entities: %w", err)
	}

	related := make([]Entity, 0, len(result.Records))
	for _, record := range result.Records {
		value, _ := record.Get("related")
		node, ok := value.(dbtype.Node)
		if !ok {
			continue
		}
		entity := Entity{Properties: node.Props, ElementID: node.ElementId}
		if len(node.Labels) > 0 {
			entity.Type = node.Labels[0]
		}
		related = append(related, entity)
	}
	return related, nil
}

// InitializeSchema asserts the uniqueness constraints and indexes the
// graph relies on. Safe to call at every startup.
func (g *KnowledgeGraph) InitializeSchema(ctx context.Context) error {
	for _, statement := range schemaStatements {
		if _, err := g.exec.ExecuteQuery(ctx, statement, nil); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}

func (g *KnowledgeGraph) Close(ctx context.Context) error {
	return g.exec.Close(ctx)
}
