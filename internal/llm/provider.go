// Package llm wraps the text-generation backend behind a small
// provider interface so report composition does not depend on any
// vendor SDK directly.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// Common errors returned by providers.
var (
	ErrNoAPIKey     = errors.New("llm: API key not configured")
	ErrEmptyContent = errors.New("llm: empty completion content")
	ErrProviderDown = errors.New("llm: provider unavailable")
)

// StatusError carries the HTTP status returned by a provider when a
// request fails at the API layer.
type StatusError struct {
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("llm: provider returned status %d: %s", e.StatusCode, e.Message)
}

// Options configures a single completion request.
type Options struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// Provider is implemented by every text-generation backend.
type Provider interface {
	// Name returns the provider identifier.
	Name() string

	// Complete sends a system prompt and a user prompt and returns
	// the generated text verbatim.
	Complete(ctx context.Context, system, user string, opts Options) (string, error)

	// Ping checks that the provider is reachable and the key valid.
	Ping(ctx context.Context) error
}
