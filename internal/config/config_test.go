package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[llm]
provider = "openai"
model = "gpt-4o"

[neo4j]
uri = "bolt://db:7687"
user = "neo4j"
password = "secret"

[extraction]
task = "Extract from: %s"

[concurrency]
batch_learn = 8
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "bolt://db:7687", cfg.Neo4j.URI)
	assert.Equal(t, "Extract from: %s", cfg.Extraction.Task)
	assert.Equal(t, 8, cfg.Concurrency.BatchLearn)
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[llm]\nprovider = \"ollama\"\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "bolt://localhost:7687", cfg.Neo4j.URI)
	assert.Equal(t, 4, cfg.Concurrency.BatchLearn)
	assert.Equal(t, 100, cfg.History.Capacity)
	assert.Equal(t, uint64(1536), cfg.Qdrant.VectorSize)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("nonexistent/config.toml")
	assert.Error(t, err)
}
