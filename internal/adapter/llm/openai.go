package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client is a chat-completion client for OpenAI-compatible APIs
// (OpenAI, Groq, DeepSeek, local Ollama).
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	client      *http.Client
	maxRetries  uint64
}

var providerBaseURLs = map[string]string{
	"openai":   "https://api.openai.com/v1",
	"groq":     "https://api.groq.com/openai/v1",
	"deepseek": "https://api.deepseek.com/v1",
	"local":    "http://localhost:11434/v1",
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *apiError `json:"error,omitempty"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// NewClient creates a client for the given provider. baseURL overrides the
// provider default when set. The API key is read from apiKeyEnv; the
// "local" provider needs no key.
func NewClient(provider, model, baseURL, apiKeyEnv string, temperature float64, maxTokens int) (*Client, error) {
	if baseURL == "" {
		var ok bool
		baseURL, ok = providerBaseURLs[provider]
		if !ok {
			return nil, fmt.Errorf("unknown LLM provider: %s (set base_url for custom endpoints)", provider)
		}
	}

	apiKey := ""
	if provider != "local" {
		apiKey = os.Getenv(apiKeyEnv)
		if apiKey == "" {
			return nil, fmt.Errorf("API key not found in environment variable: %s", apiKeyEnv)
		}
	}

	return &Client{
		baseURL:     baseURL,
		apiKey:      apiKey,
		model:       model,
		temperature: temperature,
		maxTokens:   maxTokens,
		client:      &http.Client{Timeout: 120 * time.Second},
		maxRetries:  3,
	}, nil
}

// Complete sends a system+user chat completion request. Transient HTTP
// failures are retried with exponential backoff; 4xx responses are not.
func (c *Client) Complete(ctx context.Context, system, user string) (string, error) {
	reqBody := chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	var output string
	operation := func() error {
		result, err := c.doRequest(ctx, jsonData)
		if err != nil {
			return err
		}
		output = result
		return nil
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), c.maxRetries), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		return "", err
	}
	return output, nil
}

func (c *Client) doRequest(ctx context.Context, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("API returned status %d: %s", resp.StatusCode, truncateBody(respBody))
		if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return "", backoff.Permanent(err)
		}
		return "", err
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", backoff.Permanent(fmt.Errorf("failed to parse response (body: %s): %w", truncateBody(respBody), err))
	}
	if chatResp.Error != nil {
		return "", backoff.Permanent(fmt.Errorf("API error: %s", chatResp.Error.Message))
	}
	if len(chatResp.Choices) == 0 {
		return "", backoff.Permanent(fmt.Errorf("no completion choices in response"))
	}

	return chatResp.Choices[0].Message.Content, nil
}

func (c *Client) ModelName() string {
	return c.model
}

func truncateBody(body []byte) string {
	s := string(body)
	if len(s) > 200 {
		s = s[:200]
	}
	return s
}

// MockLLM returns canned responses for tests and offline runs.
type MockLLM struct {
	Response string
	Err      error
	Calls    int
}

func NewMockLLM(response string) *MockLLM {
	return &MockLLM{Response: response}
}

func (m *MockLLM) Complete(ctx context.Context, system, user string) (string, error) {
	m.Calls++
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockLLM) ModelName() string {
	return "mock"
}
