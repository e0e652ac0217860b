package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/imsarthakshrma/Lumora/internal/config"
	"github.com/imsarthakshrma/Lumora/internal/core"
	"github.com/imsarthakshrma/Lumora/internal/email"
	"github.com/imsarthakshrma/Lumora/internal/graph"
	"github.com/imsarthakshrma/Lumora/internal/llm"
	"github.com/imsarthakshrma/Lumora/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyEnvOverrides(cfg)

	ctx := context.Background()

	exec, err := graph.NewNeo4jExecutor(cfg.Neo4j.URI, cfg.Neo4j.User, cfg.Neo4j.Password)
	if err != nil {
		log.Fatalf("Failed to connect to Neo4j: %v", err)
	}
	defer exec.Close(ctx)

	kg := graph.NewKnowledgeGraph(exec)
	if err := kg.InitializeSchema(ctx); err != nil {
		log.Fatalf("Failed to initialize graph schema: %v", err)
	}

	llmClient, _, err := llm.NewClient(ctx, cfg.LLM)
	if err != nil {
		log.Fatalf("Failed to initialize LLM client: %v", err)
	}

	agent := core.NewAgent(kg, llmClient, cfg)
	mail := email.NewAgent(llmClient, cfg.Reply)
	invoices := email.NewInvoiceProcessor(llmClient, agent, cfg.Invoice)

	srv := server.NewServer(agent, mail, invoices)
	r := srv.SetupRouter()

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting server on port %s", port)
	if err := r.Run(":" + port); err != nil {
		log.Fatal(err)
	}
}

func applyEnvOverrides(cfg *config.Config) {
	if v := os.Getenv("LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("LLM_EMBEDDING_MODEL"); v != "" {
		cfg.LLM.EmbeddingModel = v
	}
	if v := os.Getenv("LLM_API_KEY"); v != "" {
		cfg.LLM.APIKey = v
	}
	if v := os.Getenv("LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}
	if v := os.Getenv("NEO4J_URI"); v != "" {
		cfg.Neo4j.URI = v
	}
	if v := os.Getenv("NEO4J_USER"); v != "" {
		cfg.Neo4j.User = v
	}
	if v := os.Getenv("NEO4J_PASSWORD"); v != "" {
		cfg.Neo4j.Password = v
	}

	// Default to Ollama if provider is empty
	if cfg.LLM.Provider == "" {
		cfg.LLM.Provider = "ollama"
		cfg.LLM.Model = "gpt-oss:latest"
		cfg.LLM.BaseURL = "http://localhost:11434"
	}
}
