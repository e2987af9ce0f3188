package openai

// Config contains the OpenAI-compatible provider configuration.
// Defaults target Groq's OpenAI-compatible endpoint.
//   - APIKey: Maps to option.WithAPIKey()
//   - BaseURL: Maps to option.WithBaseURL()
//   - Model: Sent as the completion model
//   - Timeout: Maps to option.WithRequestTimeout() (in seconds)
type Config struct {
	APIKey  string `env:"GROQ_API_KEY"`
	BaseURL string `env:"GROQ_BASE"    envDefault:"https://api.groq.com/openai/v1"`
	Model   string `env:"GROQ_MODEL"   envDefault:"llama-3.3-70b-versatile"`
	Timeout int    `env:"GROQ_TIMEOUT" envDefault:"120"`
}
