package email

import (
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"regexp"
	"strings"
)

// Message is the structured form of one parsed email.
type Message struct {
	Subject     string   `json:"subject"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	Cc          string   `json:"cc,omitempty"`
	Date        string   `json:"date,omitempty"`
	Body        string   `json:"body"`
	Attachments []string `json:"attachments,omitempty"`
	Category    string   `json:"category,omitempty"`
	ActionItems []string `json:"action_items,omitempty"`
}

var actionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:please|kindly|can you|could you)[^.!?]*\?`),
	regexp.MustCompile(`(?i)(?:need to|must|should|have to)[^.!?]*`),
	regexp.MustCompile(`(?i)(?:action required|action item|to-do|todo)[^.!?]*`),
}

// Parse turns a raw RFC 822 message into a Message: headers, the plain
// text body, and attachment filenames. HTML-only mail yields an empty
// body rather than an error.
func Parse(raw string) (*Message, error) {
	parsed, err := mail.ReadMessage(strings.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse email: %w", err)
	}

	msg := &Message{
		Subject: parsed.Header.Get("Subject"),
		From:    parsed.Header.Get("From"),
		To:      parsed.Header.Get("To"),
		Cc:      parsed.Header.Get("Cc"),
		Date:    parsed.Header.Get("Date"),
	}

	contentType := parsed.Header.Get("Content-Type")
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		body, err := io.ReadAll(parsed.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read email body: %w", err)
		}
		msg.Body = string(body)
		return msg, nil
	}

	reader := multipart.NewReader(parsed.Body, params["boundary"])
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read email part: %w", err)
		}

		disposition := part.Header.Get("Content-Disposition")
		if strings.Contains(disposition, "attachment") {
			if filename := part.FileName(); filename != "" {
				msg.Attachments = append(msg.Attachments, filename)
			}
			continue
		}

		partType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
		if partType == "text/plain" || partType == "" {
			content, err := io.ReadAll(part)
			if err != nil {
				continue
			}
			msg.Body += string(content)
		}
	}

	return msg, nil
}

// Categorize assigns a coarse category from subject keywords. Rule
// based on purpose: categorisation gates which workflow runs, and a
// model call here would be wasted latency.
func Categorize(msg *Message) string {
	subject := strings.ToLower(msg.Subject)

	switch {
	case containsAny(subject, "invoice", "payment", "bill"):
		return "finance"
	case containsAny(subject, "meeting", "schedule", "calendar"):
		return "meeting"
	case containsAny(subject, "report", "update", "status"):
		return "report"
	case containsAny(subject, "question", "help", "support"):
		return "support"
	default:
		return "general"
	}
}

// ExtractActionItems pulls request-like sentences out of the body.
func ExtractActionItems(msg *Message) []string {
	var items []string
	for _, pattern := range actionPatterns {
		items = append(items, pattern.FindAllString(msg.Body, -1)...)
	}
	return items
}

func containsAny(s string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(s, w) {
			return true
		}
	}
	return false
}
