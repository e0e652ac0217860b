package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/imsarthakshrma/Lumora/internal/config"
	"github.com/imsarthakshrma/Lumora/internal/core/common"
	"github.com/imsarthakshrma/Lumora/internal/llm"
)

// Reply is a drafted response to an email.
type Reply struct {
	Subject          string   `json:"subject"`
	Body             string   `json:"body"`
	SuggestedActions []string `json:"suggested_actions,omitempty"`
	Priority         string   `json:"priority"`
	FollowUpNeeded   bool     `json:"follow_up_needed"`
}

// Agent drafts replies and enriches parsed messages.
type Agent struct {
	LLM     llm.Client
	Prompts config.ReplyPrompts
}

func NewAgent(client llm.Client, prompts config.ReplyPrompts) *Agent {
	return &Agent{LLM: client, Prompts: prompts}
}

// Enrich fills in the derived fields of a parsed message.
func (a *Agent) Enrich(msg *Message) {
	msg.Category = Categorize(msg)
	msg.ActionItems = ExtractActionItems(msg)
}

// DraftReply asks the model for a reply draft. A model or parse
// failure degrades to a generic acknowledgement draft instead of
// surfacing an error.
func (a *Agent) DraftReply(ctx context.Context, msg *Message) (*Reply, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email: %w", err)
	}

	prompt := fmt.Sprintf(a.Prompts.Draft, string(payload))
	response, err := a.LLM.Generate(ctx, prompt)
	if err != nil {
		return a.fallbackReply(msg), nil
	}

	reply, err := common.ParseJSON[Reply](response)
	if err != nil {
		return a.fallbackReply(msg), nil
	}
	if reply.Subject == "" {
		reply.Subject = replySubject(msg.Subject)
	}
	if reply.Priority == "" {
		reply.Priority = "medium"
	}
	return &reply, nil
}

func (a *Agent) fallbackReply(msg *Message) *Reply {
	return &Reply{
		Subject:        replySubject(msg.Subject),
		Body:           "Thank you for your email. I have received it and will respond in detail shortly.",
		Priority:       "medium",
		FollowUpNeeded: true,
	}
}

// Format renders a reply as an RFC 822 message addressed to the
// original sender.
func Format(reply *Reply, to, from string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", reply.Subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(reply.Body)
	return b.String()
}

func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}
