package domain

import "context"

// Provider represents any LLM vendor backend.
type Provider interface {
	// Complete sends a completion request and returns the full response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider identifier.
	Name() string

	// Model returns the model identifier the provider is configured with.
	Model() string
}

// ProviderRegistry manages available providers.
type ProviderRegistry interface {
	// Register adds a provider to the registry.
	Register(ctx context.Context, provider Provider) error

	// Get retrieves a provider by name.
	Get(ctx context.Context, providerName string) (Provider, error)

	// List returns all available providers.
	List(ctx context.Context) ([]string, error)
}

// Generator is the uniform text generation contract.
// An empty result means the caller must apply its fallback.
type Generator interface {
	Generate(ctx context.Context, messages []Message, temperature float64, maxTokens int) string
}

// SimilarityOracle scores the structural similarity of two encoded images.
type SimilarityOracle interface {
	// Score returns a value in [0,1]; lower means more different.
	// It fails with ErrInvalidImage when either image cannot be decoded.
	Score(ctx context.Context, before, after []byte) (float64, error)
}

// Detector counts objects per class in an encoded image.
type Detector interface {
	Detect(ctx context.Context, image []byte) (*Detection, error)
}

// TaskCatalog maintains the energy impact of known tasks.
type TaskCatalog interface {
	// GetTask returns the impact of a task code.
	GetTask(ctx context.Context, code string) (TaskImpact, error)

	// RegisterTask adds or replaces a task.
	RegisterTask(ctx context.Context, task TaskImpact) error
}
