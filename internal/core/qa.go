package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/imsarthakshrma/Lumora/internal/core/common"
	"github.com/imsarthakshrma/Lumora/internal/core/model"
	"github.com/imsarthakshrma/Lumora/internal/graph"
)

// maxToolRounds bounds the question-answering loop so a model that never
// produces a final answer cannot spin forever.
const maxToolRounds = 6

// Answer is the facade result: either an answer or a typed error, never
// a propagated exception.
type Answer struct {
	Answer string `json:"answer,omitempty"`
	Err    string `json:"error,omitempty"`
}

// toolCall is one model turn in the QA loop: either a tool invocation or
// a final answer.
type toolCall struct {
	Tool   string          `json:"tool,omitempty"`
	Args   json.RawMessage `json:"args,omitempty"`
	Answer string          `json:"answer,omitempty"`
}

// AnswerQuestion answers a natural-language question by letting the
// model drive a closed set of graph tools: create_entity,
// create_relationship, query_graph, get_related_entities. Every failure
// path is converted into Answer.Err.
func (a *Agent) AnswerQuestion(ctx context.Context, question string) *Answer {
	prompt := fmt.Sprintf(a.Prompts.QA.Question, question)
	var transcript strings.Builder
	transcript.WriteString(prompt)

	for round := 0; round < maxToolRounds; round++ {
		response, err := a.LLM.Generate(ctx, transcript.String())
		if err != nil {
			return &Answer{Err: fmt.Sprintf("question answering failed: %v", err)}
		}

		call, err := common.ParseJSON[toolCall](response)
		if err != nil {
			return &Answer{Err: fmt.Sprintf("could not parse agent response: %v", err)}
		}

		if call.Answer != "" {
			return &Answer{Answer: call.Answer}
		}
		if call.Tool == "" {
			return &Answer{Err: "agent returned neither a tool call nor an answer"}
		}

		observation := a.dispatchTool(ctx, call)
		transcript.WriteString("\n")
		transcript.WriteString(fmt.Sprintf(a.Prompts.QA.Observation, call.Tool, observation))
	}

	return &Answer{Err: fmt.Sprintf("no final answer after %d tool rounds", maxToolRounds)}
}

// dispatchTool runs one tool invocation and renders the outcome as text
// for the model. Tool errors become observations, not failures: the
// model gets a chance to correct itself within the round budget.
func (a *Agent) dispatchTool(ctx context.Context, call toolCall) string {
	switch call.Tool {
	case "create_entity":
		var args struct {
			Type       string         `json:"type"`
			Properties map[string]any `json:"properties"`
		}
		if err := json.Unmarshal(call.Args, &args); err != nil {
			return fmt.Sprintf("error: invalid arguments: %v", err)
		}
		id, err := a.Graph.CreateEntity(ctx, args.Type, args.Properties)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return fmt.Sprintf("Created %s entity with ID: %s", args.Type, id)

	case "create_relationship":
		var args model.ExtractedRelationship
		if err := json.Unmarshal(call.Args, &args); err != nil {
			return fmt.Sprintf("error: invalid arguments: %v", err)
		}
		summary, err := a.Graph.CreateRelationship(ctx, graph.Relationship{
			FromType:  args.FromType,
			FromProps: args.FromProps,
			Type:      args.RelType,
			ToType:    args.ToType,
			ToProps:   args.ToProps,
			Props:     args.RelProps,
		})
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return summary

	case "query_graph":
		var args struct {
			Query  string         `json:"query"`
			Params map[string]any `json:"params"`
		}
		if err := json.Unmarshal(call.Args, &args); err != nil {
			return fmt.Sprintf("error: invalid arguments: %v", err)
		}
		records, err := a.Graph.Query(ctx, args.Query, args.Params)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return renderJSON(records)

	case "get_related_entities":
		var args struct {
			Type       string         `json:"type"`
			Properties map[string]any `json:"properties"`
			Depth      int            `json:"depth"`
		}
		if err := json.Unmarshal(call.Args, &args); err != nil {
			return fmt.Sprintf("error: invalid arguments: %v", err)
		}
		if args.Depth == 0 {
			args.Depth = 1
		}
		related, err := a.Graph.GetRelated(ctx, args.Type, args.Properties, args.Depth)
		if err != nil {
			return fmt.Sprintf("error: %v", err)
		}
		return renderJSON(related)

	default:
		return fmt.Sprintf("error: unknown tool %q", call.Tool)
	}
}

func renderJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: could not render result: %v", err)
	}
	return string(data)
}
