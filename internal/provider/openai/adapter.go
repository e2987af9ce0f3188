// Package openai provides an adapter for OpenAI-compatible chat completion APIs
// (Groq by default) using the official SDK. It implements the domain.Provider
// interface and maps SDK failures onto the domain error taxonomy.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/observability"
)

const (
	providerName = "openai"

	minTemperature = 0.0
	maxTemperature = 2.0
)

// Provider implements the domain.Provider interface for OpenAI-compatible APIs.
type Provider struct {
	client     openai.Client
	name       string
	model      string
	baseURL    string
	configured bool
}

// NewProvider creates a new OpenAI-compatible provider.
// A missing API key does not fail construction; Complete reports it per call.
func NewProvider(config Config) *Provider {
	apiKey := strings.TrimSpace(config.APIKey)
	baseURL := strings.TrimRight(strings.TrimSpace(config.BaseURL), "/")

	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}

	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	if config.Timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(config.Timeout)*time.Second))
	}

	return &Provider{
		client:     openai.NewClient(opts...),
		name:       providerName,
		model:      strings.TrimSpace(config.Model),
		baseURL:    baseURL,
		configured: apiKey != "",
	}
}

// Complete sends a completion request and returns the full response.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if !p.configured {
		return nil, fmt.Errorf("%w: GROQ_API_KEY is not set", domain.ErrProviderNotConfigured)
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling chat completions API",
		observability.String("base_url", p.baseURL),
		observability.Int("messages", len(req.Messages)),
	)

	params := p.toSDKParams(req)

	resp, err := p.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, classifyError(err)
	}

	logger.Debug("chat completions API call succeeded",
		observability.Int("prompt_tokens", int(resp.Usage.PromptTokens)),
		observability.Int("completion_tokens", int(resp.Usage.CompletionTokens)),
	)

	return p.toDomainResponse(resp), nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Model returns the configured model identifier.
func (p *Provider) Model() string {
	return p.model
}

// toSDKParams converts domain request to SDK ChatCompletionNewParams
func (p *Provider) toSDKParams(req *domain.CompletionRequest) openai.ChatCompletionNewParams {
	messages := make([]openai.ChatCompletionMessageParamUnion, len(req.Messages))
	for i, msg := range req.Messages {
		switch msg.Role {
		case domain.RoleUser:
			messages[i] = openai.UserMessage(msg.Content)
		case domain.RoleAssistant:
			messages[i] = openai.AssistantMessage(msg.Content)
		case domain.RoleSystem:
			messages[i] = openai.SystemMessage(msg.Content)
		default:
			// Fallback to user message if role is unknown
			messages[i] = openai.UserMessage(msg.Content)
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(p.model),
		Messages:    messages,
		Temperature: openai.Float(clampTemperature(req.Temperature)),
	}

	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}

	return params
}

// toDomainResponse converts SDK response to domain response
func (p *Provider) toDomainResponse(resp *openai.ChatCompletion) *domain.CompletionResponse {
	content := ""
	if len(resp.Choices) > 0 {
		content = resp.Choices[0].Message.Content
	}

	return &domain.CompletionResponse{
		ID:       resp.ID,
		Model:    string(resp.Model),
		Provider: p.name,
		Content:  content,
		Usage: domain.Usage{
			PromptTokens:     int(resp.Usage.PromptTokens),
			CompletionTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:      int(resp.Usage.TotalTokens),
		},
		FinishTime: time.Now(),
	}
}

// classifyError maps SDK errors onto the domain failure taxonomy.
func classifyError(err error) error {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return fmt.Errorf("%w: status %d: %w", domain.ErrProviderStatus, apiErr.StatusCode, err)
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) ||
		errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}

	// The SDK reports undecodable bodies as plain wrapped errors.
	return fmt.Errorf("%w: %w", domain.ErrMalformedResponse, err)
}

func clampTemperature(t float64) float64 {
	return min(max(t, minTemperature), maxTemperature)
}
