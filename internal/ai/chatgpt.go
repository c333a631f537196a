package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/vocabot/internal/config"
)

// ErrNoAPIKey is returned by New when no key is configured
var ErrNoAPIKey = errors.New("OPENAI_API_KEY is not set")

const requestTimeout = 15 * time.Second

// ChatGPT represents a client for the OpenAI ChatGPT API
type ChatGPT struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	httpClient  *http.Client
	log         *slog.Logger
}

// New creates a new ChatGPT client
func New(cfg config.OpenAIConfig, logger *slog.Logger) (*ChatGPT, error) {
	if cfg.APIKey == "" {
		return nil, ErrNoAPIKey
	}

	return &ChatGPT{
		apiKey:      cfg.APIKey,
		apiURL:      cfg.URL,
		model:       cfg.Model,
		maxTokens:   100,
		temperature: 0.7,
		httpClient:  &http.Client{Timeout: requestTimeout},
		log:         logger.With("component", "ai"),
	}, nil
}

// Message represents a message in the ChatGPT conversation
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest represents a request to the ChatGPT API
type ChatRequest struct {
	Model       string    `json:"model"`
	Messages    []Message `json:"messages"`
	MaxTokens   int       `json:"max_tokens"`
	Temperature float64   `json:"temperature"`
}

// ChatResponse represents a response from the ChatGPT API
type ChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Example generates a short example sentence that uses word
func (c *ChatGPT) Example(ctx context.Context, word string) (string, error) {
	prompt := fmt.Sprintf(
		"Generate a short, practical example sentence in English that naturally includes the word '%s'. "+
			"Return only the sentence.",
		word,
	)

	messages := []Message{
		{Role: "system", Content: "You help people learn English vocabulary by writing clear example sentences."},
		{Role: "user", Content: prompt},
	}

	example, err := c.complete(ctx, messages)
	if err != nil {
		return "", fmt.Errorf("generate example for %q: %w", word, err)
	}

	c.log.DebugContext(ctx, "example generated", slog.String("word", word))
	return strings.Trim(example, "\""), nil
}

// complete sends one chat request and returns the first choice
func (c *ChatGPT) complete(ctx context.Context, messages []Message) (string, error) {
	request := ChatRequest{
		Model:       c.model,
		Messages:    messages,
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	requestData, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL, bytes.NewBuffer(requestData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	var response ChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}

	if response.Error != nil {
		return "", fmt.Errorf("API error: %s", response.Error.Message)
	}

	if len(response.Choices) == 0 {
		return "", errors.New("no response choices returned")
	}

	// Clean up the response
	return strings.TrimSpace(response.Choices[0].Message.Content), nil
}
