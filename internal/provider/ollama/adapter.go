// Package ollama provides an adapter for a local Ollama server's chat API.
package ollama

import (
	"context"
	"errors"
	"time"

	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/observability"
)

const providerName = "ollama"

// Provider implements the domain.Provider interface for Ollama.
type Provider struct {
	client *Client
	name   string
	model  string
}

// NewProvider creates a new Ollama provider.
func NewProvider(config Config) *Provider {
	return &Provider{
		client: NewClient(config),
		name:   providerName,
		model:  config.Model,
	}
}

// Complete sends a chat request and returns the assistant message.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("calling Ollama chat API")

	messages := make([]chatMessage, len(req.Messages))
	for i, msg := range req.Messages {
		messages[i] = chatMessage{Role: string(msg.Role), Content: msg.Content}
	}

	resp, err := p.client.Chat(ctx, chatRequest{
		Model:    p.model,
		Messages: messages,
		Stream:   false,
		Options: chatOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	})
	if err != nil {
		return nil, err
	}

	return &domain.CompletionResponse{
		Model:    resp.Model,
		Provider: p.name,
		Content:  resp.Message.Content,
		Usage: domain.Usage{
			PromptTokens:     resp.PromptEvalCount,
			CompletionTokens: resp.EvalCount,
			TotalTokens:      resp.PromptEvalCount + resp.EvalCount,
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
