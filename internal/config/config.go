package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"

	"github.com/davidbz/skill4green/internal/catalog"
	"github.com/davidbz/skill4green/internal/domain"
	"github.com/davidbz/skill4green/internal/observability"
	"github.com/davidbz/skill4green/internal/provider/gemini"
	"github.com/davidbz/skill4green/internal/provider/ollama"
	"github.com/davidbz/skill4green/internal/provider/openai"
	"github.com/davidbz/skill4green/internal/provider/registry"
	"github.com/davidbz/skill4green/internal/vision/detector"
	"github.com/davidbz/skill4green/internal/vision/ssim"
)

// Config represents the service configuration.
type Config struct {
	Server       ServerConfig
	CORS         CORSConfig
	Log          observability.Config
	LLM          registry.Config
	OpenAI       openai.Config
	Ollama       ollama.Config
	Gemini       gemini.Config
	Impact       domain.ImpactConfig
	Catalog      catalog.Config
	Verification domain.VerificationConfig
	SSIM         ssim.Config
	Detector     detector.Config
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int   `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int   `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int   `env:"SERVER_WRITE_TIMEOUT" envDefault:"150"`
	MaxUploadMB  int64 `env:"SERVER_MAX_UPLOAD_MB" envDefault:"20"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"*"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out

	Server       *ServerConfig
	CORS         *CORSConfig
	Log          *observability.Config
	LLM          *registry.Config
	OpenAI       *openai.Config
	Ollama       *ollama.Config
	Gemini       *gemini.Config
	Impact       *domain.ImpactConfig
	Catalog      *catalog.Config
	Verification *domain.VerificationConfig
	SSIM         *ssim.Config
	Detector     *detector.Config
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		Server:       &cfg.Server,
		CORS:         &cfg.CORS,
		Log:          &cfg.Log,
		LLM:          &cfg.LLM,
		OpenAI:       &cfg.OpenAI,
		Ollama:       &cfg.Ollama,
		Gemini:       &cfg.Gemini,
		Impact:       &cfg.Impact,
		Catalog:      &cfg.Catalog,
		Verification: &cfg.Verification,
		SSIM:         &cfg.SSIM,
		Detector:     &cfg.Detector,
	}
}
