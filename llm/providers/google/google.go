// Package google implements the llm.Provider interface against the Gemini
// API via the google.golang.org/genai SDK. Structured output uses
// ResponseMIMEType application/json plus a genai.Schema converted from the
// compiled document.
package google

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/deepnoodle-ai/structured/llm"
	"github.com/deepnoodle-ai/structured/retry"
	"google.golang.org/genai"
)

const ProviderName = "google"

var (
	DefaultModel         = "gemini-2.5-flash"
	DefaultMaxTokens     = 4096
	DefaultMaxRetries    = 3
	DefaultRetryBaseWait = 1 * time.Second
)

var _ llm.Provider = &Provider{}

type Provider struct {
	client        *genai.Client
	projectID     string
	location      string
	apiKey        string
	model         string
	maxTokens     int
	maxRetries    int
	retryBaseWait time.Duration
	mutex         sync.Mutex
}

func New(opts ...Option) *Provider {
	var apiKey string
	if value := os.Getenv("GEMINI_API_KEY"); value != "" {
		apiKey = value
	} else if value := os.Getenv("GOOGLE_API_KEY"); value != "" {
		apiKey = value
	}
	p := &Provider{
		apiKey:        apiKey,
		model:         DefaultModel,
		maxTokens:     DefaultMaxTokens,
		maxRetries:    DefaultMaxRetries,
		retryBaseWait: DefaultRetryBaseWait,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) initClient(ctx context.Context) (*genai.Client, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.client != nil {
		return p.client, nil
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:   p.apiKey,
		Project:  p.projectID,
		Location: p.location,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create google genai client: %v", err)
	}
	p.client = client
	return p.client, nil
}

func (p *Provider) Name() string {
	return ProviderName
}

func (p *Provider) Generate(ctx context.Context, opts ...llm.Option) (*llm.Response, error) {
	if _, err := p.initClient(ctx); err != nil {
		return nil, err
	}

	config := &llm.Config{}
	config.Apply(opts...)

	if config.Prompt == "" {
		return nil, fmt.Errorf("no prompt provided")
	}

	model := p.model
	if config.Model != "" {
		model = config.Model
	}

	genConfig, err := p.buildGenerateConfig(config)
	if err != nil {
		return nil, err
	}
	contents := genai.Text(config.Prompt)

	var result *llm.Response
	err = retry.Do(ctx, func() error {
		resp, err := p.client.Models.GenerateContent(ctx, model, contents, genConfig)
		if err != nil {
			return retry.NewRecoverableError(fmt.Errorf("error generating content: %w", err))
		}
		var convErr error
		result, convErr = convertResponse(resp, model)
		return convErr
	}, retry.WithMaxRetries(p.maxRetries), retry.WithBaseWait(p.retryBaseWait))

	if err != nil {
		return nil, err
	}
	return result, nil
}

func (p *Provider) buildGenerateConfig(config *llm.Config) (*genai.GenerateContentConfig, error) {
	genConfig := &genai.GenerateContentConfig{}

	if config.SystemPrompt != "" {
		genConfig.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: config.SystemPrompt}},
		}
	}

	if config.MaxTokens != nil && *config.MaxTokens > 0 {
		genConfig.MaxOutputTokens = int32(*config.MaxTokens)
	} else if p.maxTokens > 0 {
		genConfig.MaxOutputTokens = int32(p.maxTokens)
	}

	if config.Temperature != nil {
		t := float32(*config.Temperature)
		genConfig.Temperature = &t
	}

	if format := config.ResponseFormat; format != nil {
		switch format.Type {
		case llm.ResponseFormatTypeText, "":
		case llm.ResponseFormatTypeJSON:
			genConfig.ResponseMIMEType = "application/json"
		case llm.ResponseFormatTypeJSONSchema:
			if format.Schema == nil {
				return nil, fmt.Errorf("json_schema response format requires a schema")
			}
			converted, err := convertSchema(format.Schema, format.Schema, nil)
			if err != nil {
				return nil, fmt.Errorf("error converting schema: %w", err)
			}
			genConfig.ResponseMIMEType = "application/json"
			genConfig.ResponseSchema = converted
		default:
			return nil, fmt.Errorf("invalid response format type: %s", format.Type)
		}
	}

	return genConfig, nil
}

func convertResponse(resp *genai.GenerateContentResponse, model string) (*llm.Response, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, fmt.Errorf("empty response from google genai")
	}
	usage := llm.Usage{}
	if resp.UsageMetadata != nil {
		usage.InputTokens = int(resp.UsageMetadata.PromptTokenCount)
		usage.OutputTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return &llm.Response{
		ID:    resp.ResponseID,
		Model: model,
		Text:  resp.Text(),
		Usage: usage,
	}, nil
}
