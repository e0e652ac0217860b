package core

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/imsarthakshrma/Lumora/internal/config"
	"github.com/imsarthakshrma/Lumora/internal/core/extraction"
	"github.com/imsarthakshrma/Lumora/internal/core/history"
	"github.com/imsarthakshrma/Lumora/internal/core/model"
	"github.com/imsarthakshrma/Lumora/internal/graph"
	"github.com/imsarthakshrma/Lumora/internal/llm"
)

// ErrEmptyTask is returned when reconciliation is invoked with nothing
// to process. That is a caller bug, not bad extraction data, so it fails
// fast instead of landing in the per-item error list.
var ErrEmptyTask = errors.New("core: empty task record")

// GraphStore is the closed capability surface the agent drives. The
// knowledge graph implements it; tests substitute a recording double.
type GraphStore interface {
	CreateEntity(ctx context.Context, entityType string, properties map[string]any) (string, error)
	GetEntity(ctx context.Context, entityType string, properties map[string]any) (*graph.Entity, error)
	CreateRelationship(ctx context.Context, rel graph.Relationship) (string, error)
	Query(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
	GetRelated(ctx context.Context, entityType string, properties map[string]any, depth int) ([]graph.Entity, error)
}

// TaskResult is the outcome of reconciling one extraction against the
// store. Errors holds per-item failures; a non-empty list does not mean
// the whole call failed, callers decide.
type TaskResult struct {
	CreatedEntities      []string `json:"created_entities"`
	CreatedRelationships []string `json:"created_relationships"`
	Errors               []string `json:"errors"`
}

// Agent maintains the knowledge graph from extracted facts and answers
// questions over it.
type Agent struct {
	Graph      GraphStore
	LLM        llm.Client
	Extractor  *extraction.Extractor
	History    *history.Log
	Prompts    promptSet
	BatchLimit int
}

type promptSet struct {
	Patterns config.PatternPrompts
	QA       config.QAPrompts
}

func NewAgent(store GraphStore, client llm.Client, cfg *config.Config) *Agent {
	return &Agent{
		Graph:     store,
		LLM:       client,
		Extractor: extraction.NewExtractor(client, cfg.Extraction),
		History:   history.NewLog(cfg.History.Capacity),
		Prompts: promptSet{
			Patterns: cfg.Patterns,
			QA:       cfg.QA,
		},
		BatchLimit: cfg.Concurrency.BatchLearn,
	}
}

// ProcessTask extracts entities and relationships from one task record
// and applies them to the graph. Entities are created before any
// relationship is attempted, because relationships resolve their
// endpoints by property match. One malformed item never aborts the rest:
// its failure is appended to the result's error list and the loop
// continues.
func (a *Agent) ProcessTask(ctx context.Context, task map[string]any) (*TaskResult, error) {
	if len(task) == 0 {
		return nil, ErrEmptyTask
	}

	result := &TaskResult{}

	ext, err := a.Extractor.ExtractFromTask(ctx, task)
	if err != nil {
		// Model transport failure: fall back to the empty extraction
		// and surface the cause alongside the (empty) result.
		result.Errors = append(result.Errors, err.Error())
	}

	a.applyExtraction(ctx, ext, result)
	return result, nil
}

// ApplyExtraction reconciles an already-extracted result against the
// graph, for callers that ran extraction elsewhere (the email agent).
func (a *Agent) ApplyExtraction(ctx context.Context, ext model.Extraction) *TaskResult {
	result := &TaskResult{}
	a.applyExtraction(ctx, ext, result)
	return result
}

func (a *Agent) applyExtraction(ctx context.Context, ext model.Extraction, result *TaskResult) {
	for _, entity := range ext.Entities {
		if entity.Type == "" || len(entity.Properties) == 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("skipped entity missing type or properties: %+v", entity))
			continue
		}
		id, err := a.Graph.CreateEntity(ctx, entity.Type, entity.Properties)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error creating %s entity: %v", entity.Type, err))
			continue
		}
		result.CreatedEntities = append(result.CreatedEntities, fmt.Sprintf("Created %s entity with ID: %s", entity.Type, id))
	}

	for _, rel := range ext.Relationships {
		summary, err := a.Graph.CreateRelationship(ctx, graph.Relationship{
			FromType:  rel.FromType,
			FromProps: rel.FromProps,
			Type:      rel.RelType,
			ToType:    rel.ToType,
			ToProps:   rel.ToProps,
			Props:     rel.RelProps,
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("error creating relationship %s: %v", rel.RelType, err))
			continue
		}
		result.CreatedRelationships = append(result.CreatedRelationships, summary)
	}
}

// LearnFromTasks reconciles a batch of task records concurrently and
// returns one result per record, aligned to input order. The join waits
// for every record; a record that fails structurally still occupies its
// slot, carrying the failure in its own error list.
func (a *Agent) LearnFromTasks(ctx context.Context, tasks []map[string]any) []*TaskResult {
	results := make([]*TaskResult, len(tasks))

	// SetLimit(0) would admit no goroutines at all and deadlock the
	// first Go call, so an unset limit degrades to serial processing.
	limit := a.BatchLimit
	if limit <= 0 {
		limit = 1
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			result, err := a.ProcessTask(gCtx, task)
			if err != nil {
				result = &TaskResult{Errors: []string{err.Error()}}
			}
			results[i] = result
			return nil
		})
	}

	// Workers never return errors; Wait is purely the all-complete join.
	_ = g.Wait()
	return results
}
