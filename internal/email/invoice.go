package email

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/imsarthakshrma/Lumora/internal/config"
	"github.com/imsarthakshrma/Lumora/internal/core"
	"github.com/imsarthakshrma/Lumora/internal/core/common"
	"github.com/imsarthakshrma/Lumora/internal/llm"
)

// Invoice is the structured payment data lifted out of an email.
type Invoice struct {
	IsInvoice     bool   `json:"is_invoice"`
	InvoiceNumber string `json:"invoice_number,omitempty"`
	Amount        string `json:"amount,omitempty"`
	Currency      string `json:"currency,omitempty"`
	DueDate       string `json:"due_date,omitempty"`
	Vendor        string `json:"vendor,omitempty"`
	PaymentMethod string `json:"payment_method,omitempty"`
}

// Validation is the outcome of checking an invoice against the user's
// preferences.
type Validation struct {
	Valid      bool     `json:"valid"`
	Reasons    []string `json:"reasons,omitempty"`
	Confidence float64  `json:"confidence"`
}

// InvoiceResult is one processed invoice: the validation verdict and
// the approval or rejection reply to send back.
type InvoiceResult struct {
	Approved   bool       `json:"approved"`
	Validation Validation `json:"validation"`
	Reply      *Reply     `json:"reply"`
}

// PreferenceSource answers natural-language questions about the user;
// the graph QA facade implements it.
type PreferenceSource interface {
	AnswerQuestion(ctx context.Context, question string) *core.Answer
}

var invoiceKeywords = []string{"invoice", "payment", "bill", "receipt", "due", "statement", "charge"}

// DetectInvoice reports whether a message looks like it carries an
// invoice. Rule based: the cheap check decides whether the model-backed
// invoice workflow runs at all.
func DetectInvoice(msg *Message) bool {
	if msg.Category == "finance" {
		return true
	}
	if containsAny(strings.ToLower(msg.Subject), invoiceKeywords...) {
		return true
	}
	return containsAny(strings.ToLower(msg.Body), invoiceKeywords...)
}

// InvoiceProcessor runs the invoice workflow: extract the invoice,
// look up the user's preferences in the knowledge graph, validate, and
// draft an approval or rejection reply.
type InvoiceProcessor struct {
	LLM     llm.Client
	Prefs   PreferenceSource
	Prompts config.InvoicePrompts
}

func NewInvoiceProcessor(client llm.Client, prefs PreferenceSource, prompts config.InvoicePrompts) *InvoiceProcessor {
	return &InvoiceProcessor{LLM: client, Prefs: prefs, Prompts: prompts}
}

// ExtractInvoice asks the model for the structured invoice data in a
// message. Unparseable output degrades to not-an-invoice rather than
// failing; a transport failure is returned.
func (p *InvoiceProcessor) ExtractInvoice(ctx context.Context, msg *Message) (*Invoice, error) {
	payload, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal email: %w", err)
	}

	response, err := p.LLM.Generate(ctx, fmt.Sprintf(p.Prompts.Extract, string(payload)))
	if err != nil {
		return nil, fmt.Errorf("invoice extraction failed: %w", err)
	}

	invoice, err := common.ParseJSON[Invoice](response)
	if err != nil {
		return &Invoice{}, nil
	}
	return &invoice, nil
}

// Process validates an extracted invoice against the user's stored
// preferences and drafts the matching reply. The result always carries
// a sendable reply: drafting failures fall back to a generic
// acknowledgement, and a preference lookup failure validates against an
// empty preference set instead of aborting.
func (p *InvoiceProcessor) Process(ctx context.Context, msg *Message, inv *Invoice) (*InvoiceResult, error) {
	if inv == nil || !inv.IsInvoice {
		return nil, fmt.Errorf("no invoice detected in email")
	}

	preferences := p.lookupPreferences(ctx, inv)
	validation := p.validate(ctx, inv, preferences)

	result := &InvoiceResult{Approved: validation.Valid, Validation: validation}
	if validation.Valid {
		result.Reply = p.draftVerdict(ctx, p.Prompts.Approve, msg, inv, nil, approvalFallback(msg))
	} else {
		result.Reply = p.draftVerdict(ctx, p.Prompts.Reject, msg, inv, validation.Reasons, rejectionFallback(msg))
	}
	return result, nil
}

func (p *InvoiceProcessor) lookupPreferences(ctx context.Context, inv *Invoice) string {
	question := fmt.Sprintf("What are the user's preferences for handling invoice emails from vendor %q?", inv.Vendor)
	answer := p.Prefs.AnswerQuestion(ctx, question)
	if answer.Err != "" {
		return ""
	}
	return answer.Answer
}

func (p *InvoiceProcessor) validate(ctx context.Context, inv *Invoice, preferences string) Validation {
	payload, err := json.Marshal(inv)
	if err != nil {
		return Validation{Reasons: []string{fmt.Sprintf("could not serialize invoice: %v", err)}}
	}

	response, err := p.LLM.Generate(ctx, fmt.Sprintf(p.Prompts.Validate, string(payload), preferences))
	if err != nil {
		return Validation{Reasons: []string{fmt.Sprintf("validation failed: %v", err)}}
	}

	validation, err := common.ParseJSON[Validation](response)
	if err != nil {
		return Validation{Reasons: []string{"unable to validate invoice"}}
	}
	return validation
}

// draftVerdict renders the approval or rejection reply. reasons is nil
// on the approval path; its template has no slot for them.
func (p *InvoiceProcessor) draftVerdict(ctx context.Context, template string, msg *Message, inv *Invoice, reasons []string, fallback *Reply) *Reply {
	emailJSON, err := json.Marshal(msg)
	if err != nil {
		return fallback
	}
	invoiceJSON, err := json.Marshal(inv)
	if err != nil {
		return fallback
	}

	var prompt string
	if reasons == nil {
		prompt = fmt.Sprintf(template, string(emailJSON), string(invoiceJSON))
	} else {
		reasonsJSON, err := json.Marshal(reasons)
		if err != nil {
			return fallback
		}
		prompt = fmt.Sprintf(template, string(emailJSON), string(invoiceJSON), string(reasonsJSON))
	}

	response, err := p.LLM.Generate(ctx, prompt)
	if err != nil {
		return fallback
	}
	reply, err := common.ParseJSON[Reply](response)
	if err != nil {
		return fallback
	}
	if reply.Subject == "" {
		reply.Subject = fallback.Subject
	}
	if reply.Priority == "" {
		reply.Priority = "medium"
	}
	return &reply
}

func approvalFallback(msg *Message) *Reply {
	return &Reply{
		Subject:  replySubject(msg.Subject) + " - Invoice Approved",
		Body:     "We have received and approved your invoice for payment.",
		Priority: "medium",
	}
}

func rejectionFallback(msg *Message) *Reply {
	return &Reply{
		Subject:        replySubject(msg.Subject) + " - Invoice Requires Attention",
		Body:           "We have received your invoice but cannot approve it at this time.",
		Priority:       "medium",
		FollowUpNeeded: true,
	}
}
