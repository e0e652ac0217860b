// Command demo runs one end-to-end pass against live Neo4j and LLM
// services: process an email, learn a batch of tasks, then ask a
// question over the resulting graph.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/imsarthakshrma/Lumora/internal/config"
	"github.com/imsarthakshrma/Lumora/internal/core"
	"github.com/imsarthakshrma/Lumora/internal/email"
	"github.com/imsarthakshrma/Lumora/internal/graph"
	"github.com/imsarthakshrma/Lumora/internal/llm"
)

const sampleEmail = "From: alice@example.com\r\n" +
	"To: team@example.com\r\n" +
	"Subject: Invoice #1234 payment due\r\n" +
	"\r\n" +
	"Please process invoice #1234 for $500 by Friday.\r\n"

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

	fmt.Println("=== 1. Process email ===")
	msg, err := email.Parse(sampleEmail)
	if err != nil {
		log.Fatalf("Failed to parse sample email: %v", err)
	}
	mail.Enrich(msg)
	fmt.Printf("Category: %s, action items: %v\n", msg.Category, msg.ActionItems)

	record := map[string]any{"subject": msg.Subject, "from": msg.From, "body": msg.Body}
	ext, err := agent.Extractor.ExtractFromEmail(ctx, record)
	if err != nil {
		log.Fatalf("Email extraction failed: %v", err)
	}
	printJSON(agent.ObserveInteraction(ctx, record, ext))

	if email.DetectInvoice(msg) {
		fmt.Println("=== 1b. Invoice workflow ===")
		inv, err := invoices.ExtractInvoice(ctx, msg)
		if err != nil {
			log.Fatalf("Invoice extraction failed: %v", err)
		}
		if inv.IsInvoice {
			result, err := invoices.Process(ctx, msg, inv)
			if err != nil {
				log.Fatalf("Invoice processing failed: %v", err)
			}
			printJSON(result)
		}
	}

	fmt.Println("=== 2. Learn tasks ===")
	tasks := []map[string]any{
		{"task_id": "t-1", "task_type": "payment", "description": "Pay invoice #1234", "assignee": "Alice"},
		{"task_id": "t-2", "task_type": "report", "description": "Write Q3 summary", "assignee": "Bob"},
	}
	for i, result := range agent.LearnFromTasks(ctx, tasks) {
		fmt.Printf("task %d:\n", i)
		printJSON(result)
	}

	fmt.Println("=== 3. Ask ===")
	printJSON(agent.AnswerQuestion(ctx, "Who is responsible for invoice #1234?"))
}

func printJSON(v any) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Printf("Failed to render result: %v", err)
		return
	}
	fmt.Println(string(data))
}
