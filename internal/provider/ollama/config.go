package ollama

// Config contains Ollama provider configuration.
type Config struct {
	BaseURL string `env:"OLLAMA_BASE"    envDefault:"http://localhost:11434"`
	Model   string `env:"OLLAMA_MODEL"   envDefault:"llama3.1"`
	Timeout int    `env:"OLLAMA_TIMEOUT" envDefault:"120"`
}
