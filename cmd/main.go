package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/davidbz/skill4green/internal/advisor"
	"github.com/davidbz/skill4green/internal/catalog"
	"github.com/davidbz/skill4green/internal/config"
	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/http"
	"github.com/davidbz/skill4green/internal/http/middleware"
	"github.com/davidbz/skill4green/internal/observability"
	"github.com/davidbz/skill4green/internal/provider/echo"
	"github.com/davidbz/skill4green/internal/provider/gemini"
	"github.com/davidbz/skill4green/internal/provider/ollama"
	"github.com/davidbz/skill4green/internal/provider/openai"
	"github.com/davidbz/skill4green/internal/provider/registry"
	"github.com/davidbz/skill4green/internal/vision/detector"
	"github.com/davidbz/skill4green/internal/vision/ssim"
)

const shutdownTimeout = 15 * time.Second

func main() {
	container := buildContainer()

	err := container.Invoke(func(logger *zap.Logger, server *http.Server) error {
		defer func() {
			_ = logger.Sync()
		}()
		return run(server)
	})
	if err != nil {
		log.Fatalf("Failed to run application: %v", err)
	}
}

// run serves until SIGINT or SIGTERM, then drains in-flight requests.
func run(server *http.Server) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	return <-errCh
}

func buildContainer() *dig.Container {
	container := dig.New()

	// Configuration
	if err := container.Provide(config.Load); err != nil {
		log.Fatalf("Failed to provide config: %v", err)
	}
	if err := container.Provide(config.ParseDependenciesConfig); err != nil {
		log.Fatalf("Failed to provide config dependencies: %v", err)
	}

	// Observability
	if err := container.Provide(observability.InitLogger); err != nil {
		log.Fatalf("Failed to provide logger: %v", err)
	}

	// Provider Registry
	if err := container.Provide(func() domain.ProviderRegistry {
		return registry.NewRegistry()
	}); err != nil {
		log.Fatalf("Failed to provide registry: %v", err)
	}

	// Providers. Each is constructed even without credentials; an unconfigured
	// provider answers every call with ErrProviderNotConfigured.
	if err := container.Provide(func(cfg *openai.Config) *openai.Provider {
		return openai.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide OpenAI provider: %v", err)
	}
	if err := container.Provide(func(cfg *ollama.Config) *ollama.Provider {
		return ollama.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide Ollama provider: %v", err)
	}
	if err := container.Provide(func(cfg *gemini.Config) *gemini.Provider {
		return gemini.NewProvider(*cfg)
	}); err != nil {
		log.Fatalf("Failed to provide Gemini provider: %v", err)
	}
	if err := container.Provide(echo.NewProvider); err != nil {
		log.Fatalf("Failed to provide echo provider: %v", err)
	}

	// Register providers and select the active one once.
	if err := container.Provide(selectProvider); err != nil {
		log.Fatalf("Failed to provide active provider: %v", err)
	}

	// Domain Services
	if err := container.Provide(domain.NewGenerationService); err != nil {
		log.Fatalf("Failed to provide generation service: %v", err)
	}
	if err := container.Provide(func(g *domain.GenerationService) domain.Generator {
		return g
	}); err != nil {
		log.Fatalf("Failed to provide generator: %v", err)
	}
	if err := container.Provide(func(cfg *catalog.Config) (domain.TaskCatalog, error) {
		return catalog.New(cfg)
	}); err != nil {
		log.Fatalf("Failed to provide task catalog: %v", err)
	}
	if err := container.Provide(domain.NewImpactCalculator); err != nil {
		log.Fatalf("Failed to provide impact calculator: %v", err)
	}
	if err := container.Provide(advisor.NewService); err != nil {
		log.Fatalf("Failed to provide advisor service: %v", err)
	}

	// Vision
	if err := container.Provide(func(cfg *ssim.Config) domain.SimilarityOracle {
		return ssim.NewOracle(cfg)
	}); err != nil {
		log.Fatalf("Failed to provide similarity oracle: %v", err)
	}
	if err := container.Provide(detector.New); err != nil {
		log.Fatalf("Failed to provide detector: %v", err)
	}
	if err := container.Provide(domain.NewVerificationService); err != nil {
		log.Fatalf("Failed to provide verification service: %v", err)
	}

	// HTTP Layer
	if err := container.Provide(middleware.BuildMiddlewareChain); err != nil {
		log.Fatalf("Failed to provide middleware chain: %v", err)
	}
	if err := container.Provide(http.NewHandler); err != nil {
		log.Fatalf("Failed to provide HTTP handler: %v", err)
	}
	if err := container.Provide(http.NewServer); err != nil {
		log.Fatalf("Failed to provide HTTP server: %v", err)
	}

	return container
}

func selectProvider(
	_ *zap.Logger,
	reg domain.ProviderRegistry,
	cfg *registry.Config,
	openaiProvider *openai.Provider,
	ollamaProvider *ollama.Provider,
	geminiProvider *gemini.Provider,
	echoProvider *echo.Provider,
) (domain.Provider, error) {
	ctx := context.Background()

	for _, p := range []domain.Provider{openaiProvider, ollamaProvider, geminiProvider, echoProvider} {
		if err := reg.Register(ctx, p); err != nil {
			return nil, fmt.Errorf("failed to register %s provider: %w", p.Name(), err)
		}
	}

	provider, err := registry.Select(ctx, reg, cfg)
	if err != nil {
		return nil, errors.Join(errors.New("invalid LLM_PROVIDER"), err)
	}

	observability.FromContext(ctx).Info("generation provider selected",
		observability.String("provider", provider.Name()),
		observability.String("model", provider.Model()))

	return provider, nil
}
