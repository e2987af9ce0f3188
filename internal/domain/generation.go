package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/davidbz/skill4green/internal/observability"
)

// GenerationService exposes the active provider through the Generator contract.
// Every provider failure is absorbed here and surfaces as an empty string.
type GenerationService struct {
	provider Provider
}

// NewGenerationService creates a new generation service (DI constructor).
func NewGenerationService(provider Provider) *GenerationService {
	return &GenerationService{
		provider: provider,
	}
}

// Generate returns the completion text, or "" when the caller must fall back.
func (g *GenerationService) Generate(
	ctx context.Context,
	messages []Message,
	temperature float64,
	maxTokens int,
) string {
	if g.provider != nil {
		ctx = observability.WithProvider(ctx, g.provider.Name())
		ctx = observability.WithModel(ctx, g.provider.Model())
	}

	logger := observability.FromContext(ctx)

	text, err := g.complete(ctx, &CompletionRequest{
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		reason := FailureReason(err)
		if reason == ReasonEmpty {
			logger.Warn("provider returned empty completion", observability.Reason(reason))
		} else {
			logger.Error("generation failed, caller falls back",
				observability.Reason(reason),
				observability.Error(err))
		}
		return ""
	}

	return text
}

// Model returns the active model identifier.
func (g *GenerationService) Model() string {
	if g.provider == nil {
		return ""
	}
	return g.provider.Model()
}

// complete keeps the failure reason that Generate later collapses.
func (g *GenerationService) complete(ctx context.Context, req *CompletionRequest) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("provider panicked: %v", r)
		}
	}()

	if g.provider == nil {
		return "", ErrProviderNotConfigured
	}

	if len(req.Messages) == 0 {
		return "", errors.New("messages cannot be empty")
	}

	resp, err := g.provider.Complete(ctx, req)
	if err != nil {
		return "", fmt.Errorf("completion failed: %w", err)
	}

	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", ErrEmptyCompletion
	}

	observability.FromContext(ctx).Debug("completion succeeded",
		observability.Int("prompt_tokens", resp.Usage.PromptTokens),
		observability.Int("completion_tokens", resp.Usage.CompletionTokens),
	)

	return resp.Content, nil
}
