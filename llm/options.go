package llm

import "github.com/deepnoodle-ai/structured/slogger"

// Config carries the settings for one Generate call.
type Config struct {
	Model          string
	SystemPrompt   string
	Prompt         string
	MaxTokens      *int
	Temperature    *float64
	ResponseFormat *ResponseFormat
	Logger         slogger.Logger
}

// Apply applies the given options to the config.
func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// Option is a configuration option for a Generate call.
type Option func(*Config)

// WithModel sets the model used for the generation.
func WithModel(model string) Option {
	return func(config *Config) {
		config.Model = model
	}
}

// WithSystemPrompt sets the system prompt for the generation.
func WithSystemPrompt(systemPrompt string) Option {
	return func(config *Config) {
		config.SystemPrompt = systemPrompt
	}
}

// WithPrompt sets the user prompt for the generation.
func WithPrompt(prompt string) Option {
	return func(config *Config) {
		config.Prompt = prompt
	}
}

// WithMaxTokens sets the maximum number of output tokens.
func WithMaxTokens(maxTokens int) Option {
	return func(config *Config) {
		config.MaxTokens = &maxTokens
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) Option {
	return func(config *Config) {
		config.Temperature = &temperature
	}
}

// WithResponseFormat constrains the model's output format.
func WithResponseFormat(format *ResponseFormat) Option {
	return func(config *Config) {
		config.ResponseFormat = format
	}
}

// WithLogger sets the logger.
func WithLogger(logger slogger.Logger) Option {
	return func(config *Config) {
		config.Logger = logger
	}
}
