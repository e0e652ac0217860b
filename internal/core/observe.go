package core

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/imsarthakshrma/Lumora/internal/core/common"
	"github.com/imsarthakshrma/Lumora/internal/core/history"
	"github.com/imsarthakshrma/Lumora/internal/core/model"
)

// minHistoryForPatterns is how many interactions must be recorded before
// pattern mining runs; with fewer there is nothing to compare against.
const minHistoryForPatterns = 2

// patternWindow is how many recent interactions feed one mining pass.
const patternWindow = 5

// ObserveInteraction records an interaction, applies its extraction to
// the graph, and once enough history exists mines the recent window for
// behavioral patterns that are fed back into the graph as facts.
func (a *Agent) ObserveInteraction(ctx context.Context, input map[string]any, ext model.Extraction) *TaskResult {
	entry := history.Interaction{
		Timestamp: time.Now().UTC(),
		Input:     input,
	}
	if !ext.Empty() {
		entry.Extraction = &ext
	}
	a.History.Append(entry)

	result := a.ApplyExtraction(ctx, ext)

	if a.History.Len() >= minHistoryForPatterns {
		if err := a.minePatterns(ctx); err != nil {
			// Pattern mining is best effort: the interaction itself has
			// already been applied.
			log.Printf("pattern mining skipped: %v", err)
		}
	}

	return result
}

func (a *Agent) minePatterns(ctx context.Context) error {
	recent := a.History.Recent(patternWindow)
	payload, err := json.MarshalIndent(recent, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize history: %w", err)
	}

	prompt := fmt.Sprintf(a.Prompts.Patterns.Mine, string(payload))
	response, err := a.LLM.Generate(ctx, prompt)
	if err != nil {
		return fmt.Errorf("pattern analysis failed: %w", err)
	}

	patterns, err := common.ParseJSON[map[string]any](response)
	if err != nil {
		return fmt.Errorf("could not parse pattern analysis: %w", err)
	}

	_, err = a.ProcessTask(ctx, map[string]any{
		"pattern_analysis": patterns,
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
	})
	return err
}
