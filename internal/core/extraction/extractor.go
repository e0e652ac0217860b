package extraction

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/imsarthakshrma/Lumora/internal/config"
	"github.com/imsarthakshrma/Lumora/internal/core/common"
	"github.com/imsarthakshrma/Lumora/internal/core/model"
	"github.com/imsarthakshrma/Lumora/internal/llm"
)

// Extractor turns an arbitrary record into candidate entities and
// relationships via the language model. Unparseable model output is a
// recoverable condition: the extractor degrades to the empty extraction
// instead of failing the call.
type Extractor struct {
	LLM     llm.Client
	Prompts config.ExtractionPrompts
}

func NewExtractor(client llm.Client, prompts config.ExtractionPrompts) *Extractor {
	return &Extractor{
		LLM:     client,
		Prompts: prompts,
	}
}

// ExtractFromTask extracts workflow entities and relationships from a
// task record. A model transport failure is returned as an error for the
// caller to record; malformed model output is not.
func (e *Extractor) ExtractFromTask(ctx context.Context, task map[string]any) (model.Extraction, error) {
	return e.extract(ctx, e.Prompts.Task, task)
}

// ExtractFromEmail extracts communication entities and relationships
// from parsed email data.
func (e *Extractor) ExtractFromEmail(ctx context.Context, email map[string]any) (model.Extraction, error) {
	return e.extract(ctx, e.Prompts.Email, email)
}

func (e *Extractor) extract(ctx context.Context, promptTemplate string, record map[string]any) (model.Extraction, error) {
	payload, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return model.Extraction{}, fmt.Errorf("failed to serialize record: %w", err)
	}

	prompt := fmt.Sprintf(promptTemplate, string(payload))

	response, err := e.LLM.Generate(ctx, prompt)
	if err != nil {
		return model.Extraction{}, fmt.Errorf("extraction failed: %w", err)
	}

	extraction, err := common.ParseJSON[model.Extraction](response)
	if err != nil {
		// The model produced prose instead of the contract shape.
		// Recover with the empty extraction rather than aborting.
		return model.Extraction{}, nil
	}
	return extraction, nil
}
