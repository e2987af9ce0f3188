package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/davidbz/skill4green/internal/domain"
)

const maxErrorBodyBytes = 2048

// Client wraps the HTTP client for Ollama API calls.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a new Ollama HTTP client.
func NewClient(config Config) *Client {
	return &Client{
		baseURL: strings.TrimRight(config.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(config.Timeout) * time.Second,
		},
	}
}

// Ollama API request/response structures.
type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
	Stream   bool          `json:"stream"`
	Options  chatOptions   `json:"options"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict,omitempty"`
}

type chatResponse struct {
	Model           string       `json:"model"`
	Message         *chatMessage `json:"message"`
	Done            bool         `json:"done"`
	PromptEvalCount int          `json:"prompt_eval_count"`
	EvalCount       int          `json:"eval_count"`
}

// Chat sends a non-streaming /api/chat request.
func (c *Client) Chat(ctx context.Context, req chatRequest) (*chatResponse, error) {
	reqBody, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.baseURL+"/api/chat",
		bytes.NewReader(reqBody),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrProviderStatus, resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if decodeErr := json.NewDecoder(resp.Body).Decode(&chatResp); decodeErr != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, decodeErr)
	}

	if chatResp.Message == nil {
		return nil, fmt.Errorf("%w: response has no message", domain.ErrMalformedResponse)
	}

	return &chatResp, nil
}
