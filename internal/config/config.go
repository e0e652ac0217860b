package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

type LLMConfig struct {
	Provider       string `toml:"provider"`
	Model          string `toml:"model"`
	EmbeddingModel string `toml:"embedding_model"`
	APIKey         string `toml:"api_key"`
	BaseURL        string `toml:"base_url"`
}

type Neo4jConfig struct {
	URI      string `toml:"uri"`
	User     string `toml:"user"`
	Password string `toml:"password"`
}

type QdrantConfig struct {
	Host       string `toml:"host"`
	Port       int    `toml:"port"`
	APIKey     string `toml:"api_key"`
	UseTLS     bool   `toml:"use_tls"`
	Collection string `toml:"collection"`
	VectorSize uint64 `toml:"vector_size"`
}

// ExtractionPrompts are fmt templates; Task and Email each take one %s
// with the JSON-serialized record.
type ExtractionPrompts struct {
	Task  string `toml:"task"`
	Email string `toml:"email"`
}

// ReplyPrompts are fmt templates; Draft takes one %s with the
// JSON-serialized email.
type ReplyPrompts struct {
	Draft string `toml:"draft"`
}

// InvoicePrompts drive the invoice workflow: Extract takes the email
// JSON, Validate takes the invoice JSON and the user-preference text,
// Approve takes the email and invoice JSON, Reject additionally takes
// the rejection reasons.
type InvoicePrompts struct {
	Extract  string `toml:"extract"`
	Validate string `toml:"validate"`
	Approve  string `toml:"approve"`
	Reject   string `toml:"reject"`
}

// PatternPrompts drive the interaction-history mining pass.
type PatternPrompts struct {
	Mine string `toml:"mine"`
}

// QAPrompts drive the graph question-answering loop: Question takes the
// question, Observation takes the tool name and its result.
type QAPrompts struct {
	Question    string `toml:"question"`
	Observation string `toml:"observation"`
}

type ConcurrencyConfig struct {
	BatchLearn int `toml:"batch_learn"`
}

type HistoryConfig struct {
	Capacity int `toml:"capacity"`
}

type Config struct {
	LLM         LLMConfig         `toml:"llm"`
	Neo4j       Neo4jConfig       `toml:"neo4j"`
	Qdrant      QdrantConfig      `toml:"qdrant"`
	Extraction  ExtractionPrompts `toml:"extraction"`
	Reply       ReplyPrompts      `toml:"reply"`
	Invoice     InvoicePrompts    `toml:"invoice"`
	Patterns    PatternPrompts    `toml:"patterns"`
	QA          QAPrompts         `toml:"qa"`
	Concurrency ConcurrencyConfig `toml:"concurrency"`
	History     HistoryConfig     `toml:"history"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", path, err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse TOML: %w", err)
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Neo4j.URI == "" {
		c.Neo4j.URI = "bolt://localhost:7687"
	}
	if c.Neo4j.User == "" {
		c.Neo4j.User = "neo4j"
	}
	if c.Concurrency.BatchLearn <= 0 {
		c.Concurrency.BatchLearn = 4
	}
	if c.History.Capacity <= 0 {
		c.History.Capacity = 100
	}
	if c.Qdrant.Collection == "" {
		c.Qdrant.Collection = "lumora_documents"
	}
	if c.Qdrant.VectorSize == 0 {
		c.Qdrant.VectorSize = 1536
	}
}
