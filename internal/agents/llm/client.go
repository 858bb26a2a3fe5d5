// Package llm abstracts the chat-completion providers behind a single
// Client interface so the agents never touch provider SDKs directly.
package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"scriptforge/internal/common/config"
	commonerrors "scriptforge/internal/common/errors"
)

// Request is a single chat-completion call.
type Request struct {
	SystemPrompt string
	UserMessage  string
	Temperature  float64
	MaxTokens    int
}

// Usage reports token consumption for one call. Providers that omit
// usage data leave the fields zero.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Result is the provider-agnostic completion result.
type Result struct {
	Content    string
	StopReason string
	Usage      Usage
}

// Client is implemented by each provider adapter.
type Client interface {
	// Generate performs one chat completion. The context carries the
	// per-call deadline; adapters map deadline expiry to a
	// PROVIDER_TIMEOUT error.
	Generate(ctx context.Context, req Request) (*Result, error)
	// Name returns the provider identifier used in logs and errors.
	Name() string
}

// Settings carries the knobs shared by all adapters.
type Settings struct {
	MaxTokens int
	Timeout   time.Duration
}

func settingsFrom(cfg config.LLMConfig) Settings {
	s := Settings{
		MaxTokens: cfg.MaxTokens,
		Timeout:   time.Duration(cfg.Timeout) * time.Millisecond,
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = 4096
	}
	if s.Timeout <= 0 {
		s.Timeout = 90 * time.Second
	}
	return s
}

// New constructs the adapter for the configured provider.
func New(cfg config.LLMConfig) (Client, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIClient(cfg.OpenAI, settingsFrom(cfg)), nil
	case "groq":
		return newGroqClient(cfg.Groq, settingsFrom(cfg)), nil
	default:
		return nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}
}

// wrapCallError maps transport failures to StandardErrors, separating
// deadline expiry from everything else so callers can retry timeouts.
func wrapCallError(ctx context.Context, provider string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return commonerrors.NewProviderTimeoutError(provider)
	}
	return commonerrors.NewProviderCallError(provider, err)
}
