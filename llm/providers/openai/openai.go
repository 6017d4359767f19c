// Package openai implements the llm.Provider interface against the OpenAI
// Responses API. Structured output uses the json_schema text format, which
// accepts the compiler's $defs/$ref documents directly.
package openai

import (
	"context"
	"fmt"

	"github.com/deepnoodle-ai/structured/llm"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
)

const ProviderName = "openai"

var (
	DefaultModel     = openai.ChatModelGPT4o
	DefaultMaxTokens = 4096
)

var _ llm.Provider = &Provider{}

type Provider struct {
	client    openai.Client
	model     openai.ChatModel
	maxTokens int
	options   []option.RequestOption
}

func New(opts ...Option) *Provider {
	p := &Provider{
		model:     DefaultModel,
		maxTokens: DefaultMaxTokens,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.client = openai.NewClient(p.options...)
	return p
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Generate(ctx context.Context, opts ...llm.Option) (*llm.Response, error) {
	config := &llm.Config{}
	config.Apply(opts...)

	params, err := p.buildRequestParams(config)
	if err != nil {
		return nil, err
	}

	response, err := p.client.Responses.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("error making request: %w", err)
	}

	return &llm.Response{
		ID:    response.ID,
		Model: string(response.Model),
		Text:  response.OutputText(),
		Usage: llm.Usage{
			InputTokens:  int(response.Usage.InputTokens),
			OutputTokens: int(response.Usage.OutputTokens),
		},
	}, nil
}

// buildRequestParams converts llm.Config to responses.ResponseNewParams
func (p *Provider) buildRequestParams(config *llm.Config) (responses.ResponseNewParams, error) {
	if config.Prompt == "" {
		return responses.ResponseNewParams{}, fmt.Errorf("no prompt provided")
	}

	model := p.model
	if config.Model != "" {
		model = config.Model
	}

	params := responses.ResponseNewParams{
		Model: model,
		Input: responses.ResponseNewParamsInputUnion{
			OfString: openai.String(config.Prompt),
		},
	}

	if config.SystemPrompt != "" {
		params.Instructions = openai.String(config.SystemPrompt)
	}

	if config.MaxTokens != nil && *config.MaxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(*config.MaxTokens))
	} else if p.maxTokens > 0 {
		params.MaxOutputTokens = openai.Int(int64(p.maxTokens))
	}

	if config.Temperature != nil {
		params.Temperature = openai.Float(*config.Temperature)
	}

	if format := config.ResponseFormat; format != nil {
		text, err := buildTextConfig(format)
		if err != nil {
			return responses.ResponseNewParams{}, err
		}
		params.Text = text
	}

	return params, nil
}

// buildTextConfig maps a response format onto the Responses API text
// configuration.
func buildTextConfig(format *llm.ResponseFormat) (responses.ResponseTextConfigParam, error) {
	switch format.Type {
	case llm.ResponseFormatTypeText, "":
		return responses.ResponseTextConfigParam{}, nil

	case llm.ResponseFormatTypeJSON:
		return responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONObject: &responses.ResponseFormatJSONObjectParam{},
			},
		}, nil

	case llm.ResponseFormatTypeJSONSchema:
		if format.Schema == nil {
			return responses.ResponseTextConfigParam{}, fmt.Errorf("json_schema response format requires a schema")
		}
		schemaMap, err := format.Schema.AsMap()
		if err != nil {
			return responses.ResponseTextConfigParam{}, fmt.Errorf("error converting schema: %w", err)
		}
		name := format.Name
		if name == "" {
			name = "response"
		}
		jsonSchema := &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:   name,
			Schema: schemaMap,
			Strict: openai.Bool(true),
		}
		if format.Description != "" {
			jsonSchema.Description = openai.String(format.Description)
		}
		return responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: jsonSchema,
			},
		}, nil

	default:
		return responses.ResponseTextConfigParam{}, fmt.Errorf("invalid response format type: %s", format.Type)
	}
}
