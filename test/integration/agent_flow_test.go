//go:build integration

package integration

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imsarthakshrma/Lumora/internal/config"
	"github.com/imsarthakshrma/Lumora/internal/core"
	"github.com/imsarthakshrma/Lumora/internal/llm"
)

// TestAgentFullFlow exercises extraction, graph writes and question
// answering against live Neo4j and a live model. Needs NEO4J_URI plus
// the LLM_* environment.
func TestAgentFullFlow(t *testing.T) {
	kg := connectGraph(t)
	ctx := context.Background()

	if os.Getenv("LLM_PROVIDER") == "" && os.Getenv("LLM_API_KEY") == "" {
		t.Skip("Skipping agent flow test: no LLM configured")
	}

	cfg, err := config.Load("../../config/config.toml")
	require.NoError(t, err)
	cfg.LLM = config.LLMConfig{
		Provider: os.Getenv("LLM_PROVIDER"),
		Model:    os.Getenv("LLM_MODEL"),
		BaseURL:  os.Getenv("LLM_BASE_URL"),
		APIKey:   os.Getenv("LLM_API_KEY"),
	}
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}

	llmClient, _, err := llm.NewClient(ctx, cfg.LLM)
	require.NoError(t, err)

	require.NoError(t, kg.InitializeSchema(ctx))
	agent := core.NewAgent(kg, llmClient, cfg)

	taskID := fmt.Sprintf("flow-%s", uuid.New().String())
	result, err := agent.ProcessTask(ctx, map[string]any{
		"task_id":     taskID,
		"task_type":   "payment",
		"description": "Pay invoice #1234 for $500, assigned to Dana",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, result.CreatedEntities, "extraction should create at least one entity")

	answer := agent.AnswerQuestion(ctx, "What payment tasks exist in the graph?")
	assert.Empty(t, answer.Err)
	assert.NotEmpty(t, answer.Answer)
}
