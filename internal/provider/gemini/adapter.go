// Package gemini provides an adapter for Google's Generative Language API.
//
// The API has no system role, so the conversation is flattened into a single
// user turn with role-prefixed paragraphs.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/observability"
)

const providerName = "gemini"

// Provider implements the domain.Provider interface for Gemini.
type Provider struct {
	client     *Client
	name       string
	model      string
	configured bool
}

// NewProvider creates a new Gemini provider.
func NewProvider(config Config) *Provider {
	config.APIKey = strings.TrimSpace(config.APIKey)

	return &Provider{
		client:     NewClient(config),
		name:       providerName,
		model:      config.Model,
		configured: config.APIKey != "",
	}
}

// Complete sends a generateContent request and returns the first candidate's text.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	if !p.configured {
		return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", domain.ErrProviderNotConfigured)
	}

	observability.FromContext(ctx).Debug("calling Gemini generateContent API")

	resp, err := p.client.GenerateContent(ctx, p.model, generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: flatten(req.Messages)}},
		}},
		GenerationConfig: generationConfig{
			Temperature:     req.Temperature,
			MaxOutputTokens: req.MaxTokens,
		},
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Candidates) == 0 || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("%w: no candidates in response", domain.ErrMalformedResponse)
	}

	model := resp.ModelVersion
	if model == "" {
		model = p.model
	}

	return &domain.CompletionResponse{
		Model:    model,
		Provider: p.name,
		Content:  resp.Candidates[0].Content.Parts[0].Text,
		Usage: domain.Usage{
			PromptTokens:     resp.UsageMetadata.PromptTokenCount,
			CompletionTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:      resp.UsageMetadata.TotalTokenCount,
		},
		FinishTime: time.Now(),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Model returns the configured model identifier.
func (p *Provider) Model() string {
	return p.model
}

// flatten renders messages as "System: ...", "User: ..." and "Assistant: ..." paragraphs.
func flatten(messages []domain.Message) string {
	parts := make([]string, 0, len(messages))
	for _, msg := range messages {
		parts = append(parts, rolePrefix(msg.Role)+msg.Content)
	}
	return strings.Join(parts, "\n\n")
}

func rolePrefix(role domain.Role) string {
	switch role {
	case domain.RoleSystem:
		return "System: "
	case domain.RoleAssistant:
		return "Assistant: "
	default:
		return "User: "
	}
}
