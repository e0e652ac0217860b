package extraction

import (
	"context"
	"errors"
	"testing"

	"github.com/imsarthakshrma/Lumora/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractFromTask(t *testing.T) {
	mockJSON := `{
		"entities": [
			{"type": "Person", "properties": {"name": "Sarah Johnson"}},
			{"type": "Document", "properties": {"type": "Invoice", "id": "123"}}
		],
		"relationships": [
			{
				"from_type": "Document",
				"from_props": {"id": "123"},
				"rel_type": "SENT_BY",
				"to_type": "Person",
				"to_props": {"name": "Sarah Johnson"}
			}
		]
	}`

	mockLLM := &MockLLMClient{Response: mockJSON}
	extractor := NewExtractor(mockLLM, config.ExtractionPrompts{Task: "extract: %s"})

	extraction, err := extractor.ExtractFromTask(context.Background(), map[string]any{
		"email": map[string]any{"subject": "Invoice #123"},
	})

	require.NoError(t, err)
	require.Len(t, extraction.Entities, 2)
	assert.Equal(t, "Person", extraction.Entities[0].Type)
	assert.Equal(t, "Sarah Johnson", extraction.Entities[0].Properties["name"])
	require.Len(t, extraction.Relationships, 1)
	assert.Equal(t, "SENT_BY", extraction.Relationships[0].RelType)

	require.Len(t, mockLLM.Prompts, 1)
	assert.Contains(t, mockLLM.Prompts[0], "Invoice #123")
}

func TestExtractFromTask_UnparseableOutputRecoversEmpty(t *testing.T) {
	mockLLM := &MockLLMClient{Response: "Sorry, I cannot help with that."}
	extractor := NewExtractor(mockLLM, config.ExtractionPrompts{Task: "extract: %s"})

	extraction, err := extractor.ExtractFromTask(context.Background(), map[string]any{"k": "v"})

	require.NoError(t, err)
	assert.True(t, extraction.Empty())
}

func TestExtractFromTask_TransportError(t *testing.T) {
	mockLLM := &MockLLMClient{Err: errors.New("connection refused")}
	extractor := NewExtractor(mockLLM, config.ExtractionPrompts{Task: "extract: %s"})

	_, err := extractor.ExtractFromTask(context.Background(), map[string]any{"k": "v"})

	assert.ErrorContains(t, err, "extraction failed")
}

func TestExtractFromEmail_UsesEmailPrompt(t *testing.T) {
	mockLLM := &MockLLMClient{Response: `{"entities": [], "relationships": []}`}
	extractor := NewExtractor(mockLLM, config.ExtractionPrompts{
		Task:  "task: %s",
		Email: "email: %s",
	})

	_, err := extractor.ExtractFromEmail(context.Background(), map[string]any{"subject": "hi"})

	require.NoError(t, err)
	require.Len(t, mockLLM.Prompts, 1)
	assert.Contains(t, mockLLM.Prompts[0], "email:")
}
