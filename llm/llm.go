// Package llm defines the minimal provider abstraction the extraction
// driver talks to: a completion API that accepts a prompt plus a response
// schema and returns text expected to validate against that schema.
package llm

import "context"

// Provider is a completion API collaborator.
type Provider interface {
	// Name of the provider, e.g. "openai".
	Name() string

	// Generate runs one synchronous request/response exchange.
	Generate(ctx context.Context, opts ...Option) (*Response, error)
}

// Response captures the output of one completion call.
type Response struct {
	ID    string
	Model string
	Text  string
	Usage Usage
}

// Usage contains token usage information for a completion call.
type Usage struct {
	InputTokens  int
	OutputTokens int
}
