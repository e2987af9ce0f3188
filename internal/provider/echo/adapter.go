// Package echo provides an offline provider that answers with the latest user message.
// It implements the domain.Provider interface without making external API calls,
// giving deterministic completions for local development and tests.
package echo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/observability"
)

const (
	providerName = "echo"
	modelName    = "echo"
)

// Provider implements the domain.Provider interface for offline use.
type Provider struct {
	name  string
	model string
}

// NewProvider creates a new echo provider.
// No configuration is required as this provider operates entirely in-memory.
func NewProvider() *Provider {
	return &Provider{
		name:  providerName,
		model: modelName,
	}
}

// Complete returns the content of the last user message.
func (p *Provider) Complete(ctx context.Context, req *domain.CompletionRequest) (*domain.CompletionResponse, error) {
	if req == nil {
		return nil, errors.New("request cannot be nil")
	}

	logger := observability.FromContext(ctx)
	logger.Debug("echoing request")

	content := lastUserMessage(req.Messages)

	promptTokens := 0
	for _, msg := range req.Messages {
		promptTokens += countTokens(msg.Content)
	}
	completionTokens := countTokens(content)

	return &domain.CompletionResponse{
		ID:       fmt.Sprintf("echo-%d", time.Now().UnixNano()),
		Model:    p.model,
		Provider: p.name,
		Content:  content,
		Usage: domain.Usage{
			PromptTokens:     promptTokens,
			CompletionTokens: completionTokens,
			TotalTokens:      promptTokens + completionTokens,
		},
		FinishTime: time.Now(),
	}, nil
}

// Name returns the provider identifier.
func (p *Provider) Name() string {
	return p.name
}

// Model returns the model identifier.
func (p *Provider) Model() string {
	return p.model
}

func lastUserMessage(messages []domain.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == domain.RoleUser {
			return messages[i].Content
		}
	}
	return ""
}

// countTokens performs simple word-based token counting.
func countTokens(content string) int {
	if content == "" {
		return 0
	}
	return len(strings.Fields(content))
}
