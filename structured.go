package structured

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/deepnoodle-ai/structured/decode"
	"github.com/deepnoodle-ai/structured/llm"
	"github.com/deepnoodle-ai/structured/retry"
	"github.com/deepnoodle-ai/structured/schema"
	"github.com/deepnoodle-ai/structured/slogger"
	"github.com/deepnoodle-ai/structured/types"
)

// Schema compiles the JSON Schema document for a type descriptor.
func Schema(t types.Type) (*schema.Schema, error) {
	return schema.Compile(t)
}

// Decode reconstructs a typed value from a parsed JSON value.
func Decode(t types.Type, v any) (any, error) {
	return decode.Decode(t, v)
}

// ExtractorOptions configures a new Extractor.
type ExtractorOptions struct {
	// Provider is the completion API used to generate payloads. Required.
	Provider llm.Provider

	// SystemPrompt is prepended to every extraction request.
	SystemPrompt string

	// MaxAttempts bounds how many times a prompt is re-sent when the model
	// returns a payload that does not parse or decode. Defaults to
	// retry.DefaultMaxRetries.
	MaxAttempts int

	// RetryBaseWait is the wait before the first re-send. Defaults to
	// retry.DefaultBaseWait.
	RetryBaseWait time.Duration

	// Logger receives structured diagnostics. Defaults to a no-op logger.
	Logger slogger.Logger
}

// Extractor drives the full structured-output flow: compile a schema for a
// type, ask a completion API for a payload conforming to it, parse the
// payload, and decode it back into a typed value.
type Extractor struct {
	provider      llm.Provider
	systemPrompt  string
	maxAttempts   int
	retryBaseWait time.Duration
	logger        slogger.Logger
}

// NewExtractor returns an Extractor for the given provider.
func NewExtractor(opts ExtractorOptions) (*Extractor, error) {
	if opts.Provider == nil {
		return nil, fmt.Errorf("provider is required")
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = retry.DefaultMaxRetries
	}
	if opts.RetryBaseWait <= 0 {
		opts.RetryBaseWait = retry.DefaultBaseWait
	}
	if opts.Logger == nil {
		opts.Logger = slogger.DefaultLogger
	}
	return &Extractor{
		provider:      opts.Provider,
		systemPrompt:  opts.SystemPrompt,
		maxAttempts:   opts.MaxAttempts,
		retryBaseWait: opts.RetryBaseWait,
		logger:        opts.Logger,
	}, nil
}

// Extract asks the provider for a value of type t matching the prompt.
// The compiled schema constrains the model's output; the returned payload
// is parsed and decoded into the descriptor's value representation.
// Payloads that fail to parse or decode are retried up to MaxAttempts.
func (e *Extractor) Extract(ctx context.Context, t types.Type, prompt string, opts ...llm.Option) (any, error) {
	doc, err := schema.Compile(t)
	if err != nil {
		return nil, fmt.Errorf("error compiling schema: %w", err)
	}

	name := t.Name()
	if name == "" {
		name = "response"
	}
	genOpts := []llm.Option{
		llm.WithPrompt(prompt),
		llm.WithResponseFormat(&llm.ResponseFormat{
			Type:   llm.ResponseFormatTypeJSONSchema,
			Name:   name,
			Schema: doc,
		}),
	}
	if e.systemPrompt != "" {
		genOpts = append(genOpts, llm.WithSystemPrompt(e.systemPrompt))
	}
	genOpts = append(genOpts, opts...)

	logger := e.logger.With("provider", e.provider.Name(), "type", name)

	var out any
	err = retry.Do(ctx, func() error {
		response, err := e.provider.Generate(ctx, genOpts...)
		if err != nil {
			// Provider failures are presumed transient; errors carrying a
			// non-retryable HTTP status still stop the loop.
			return retry.NewRecoverableError(err)
		}
		var payload any
		if err := json.Unmarshal([]byte(response.Text), &payload); err != nil {
			logger.Warn("model returned malformed json", "error", err)
			return retry.NewRecoverableError(fmt.Errorf("error parsing model output: %w", err))
		}
		decoded, err := decode.Decode(t, payload)
		if err != nil {
			logger.Warn("model output did not decode", "error", err)
			return retry.NewRecoverableError(err)
		}
		logger.Debug("extraction complete",
			"input_tokens", response.Usage.InputTokens,
			"output_tokens", response.Usage.OutputTokens)
		out = decoded
		return nil
	}, retry.WithMaxRetries(e.maxAttempts), retry.WithBaseWait(e.retryBaseWait))

	if err != nil {
		return nil, err
	}
	return out, nil
}

// Extract derives a record descriptor for the struct type T and extracts
// one instance of it.
func Extract[T any](ctx context.Context, e *Extractor, prompt string, opts ...llm.Option) (T, error) {
	var zero T
	desc, err := types.Struct[T]()
	if err != nil {
		return zero, err
	}
	v, err := e.Extract(ctx, desc, prompt, opts...)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("decoded a %T, expected a %T", v, zero)
	}
	return out, nil
}
