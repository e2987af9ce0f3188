package registry

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/davidbz/skill4green/internal/domain"
)

// Config selects the provider that serves every generation request.
type Config struct {
	Provider string `env:"LLM_PROVIDER" envDefault:"openai"`
}

// Registry implements the ProviderRegistry interface.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]domain.Provider
}

// NewRegistry creates a new provider registry.
func NewRegistry() *Registry {
	return &Registry{
		mu:        sync.RWMutex{},
		providers: make(map[string]domain.Provider),
	}
}

// Register adds a provider to the registry.
func (r *Registry) Register(_ context.Context, provider domain.Provider) error {
	if provider == nil {
		return errors.New("provider cannot be nil")
	}

	name := provider.Name()
	if name == "" {
		return errors.New("provider name cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.providers[name]; exists {
		return fmt.Errorf("provider %s already registered", name)
	}

	r.providers[name] = provider

	return nil
}

// Get retrieves a provider by name.
func (r *Registry) Get(_ context.Context, providerName string) (domain.Provider, error) {
	if providerName == "" {
		return nil, errors.New("provider name cannot be empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	provider, exists := r.providers[providerName]
	if !exists {
		return nil, fmt.Errorf("provider %s not found", providerName)
	}

	return provider, nil
}

// List returns all available providers in sorted order.
func (r *Registry) List(_ context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// Select resolves the configured provider. It is called once at startup.
func Select(ctx context.Context, reg domain.ProviderRegistry, cfg *Config) (domain.Provider, error) {
	if cfg == nil || cfg.Provider == "" {
		return nil, errors.New("no provider selected")
	}

	provider, err := reg.Get(ctx, cfg.Provider)
	if err != nil {
		names, _ := reg.List(ctx)
		return nil, fmt.Errorf("unknown provider %q (available: %s): %w",
			cfg.Provider, strings.Join(names, ", "), err)
	}

	return provider, nil
}
