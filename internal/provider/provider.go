package provider

import "context"

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// GenerateRequest is one structured prompt: a system instruction plus an
// ordered message list. Temperature is passed through to the backend.
type GenerateRequest struct {
	System      string
	Messages    []Message
	Temperature float64
}

// Oracle is the single capability the pipeline needs from a text-generation
// backend: given a structured prompt, return generated text or fail.
type Oracle interface {
	Generate(ctx context.Context, req GenerateRequest) (string, error)
	Name() string
	ModelName() string
}
