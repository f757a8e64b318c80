package llm

import (
	"context"
	"errors"
	"strings"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role
	Content string
}

type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// Provider turns a role-tagged conversation into free-form text.
type Provider interface {
	Generate(ctx context.Context, req Request) (string, error)
	Name() string
	Close() error
}

var ErrEmptyResponse = errors.New("llm: empty response")

// System and Conversation split a request the way most vendor APIs want it.
func (r Request) System() string {
	var parts []string
	for _, m := range r.Messages {
		if m.Role == RoleSystem && m.Content != "" {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (r Request) Conversation() []Message {
	out := make([]Message, 0, len(r.Messages))
	for _, m := range r.Messages {
		if m.Role != RoleSystem {
			out = append(out, m)
		}
	}
	return out
}
