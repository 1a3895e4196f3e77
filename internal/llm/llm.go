package llm

import "context"

// Prompt is the message pair sent to the model. System may be empty, in
// which case only the user message is sent.
type Prompt struct {
	System string
	User   string
}

// Client abstracts the chat-completion provider so the workflow can be
// tested without network access.
type Client interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// Settings carries provider configuration resolved from config.yml.
type Settings struct {
	Provider string
	Model    string
	APIKey   string
	BaseURL  string
}
