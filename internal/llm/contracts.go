// Package llm wraps the language-model completion boundary: provider clients,
// payload extraction from free-form responses, and schema validation.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Completer is the narrow interface the extraction pipeline depends on: one
// prompt in, free-form text out. One call is made per stage per request.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config selects and configures a completion provider.
type Config struct {
	Provider    string // "ollama" (default) or "openai"
	BaseURL     string
	Model       string
	APIKey      string // openai only
	Temperature float32
	Timeout     time.Duration
}

// New builds a Completer for the configured provider.
func New(cfg Config, logger *slog.Logger) (Completer, error) {
	switch cfg.Provider {
	case "", "ollama":
		return NewOllama(cfg, logger), nil
	case "openai":
		return NewOpenAI(cfg, logger), nil
	default:
		return nil, fmt.Errorf("unknown llm provider: %q", cfg.Provider)
	}
}
