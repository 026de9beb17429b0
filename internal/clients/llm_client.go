// Package clients contains HTTP clients for external collaborators.
package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/bitflow/pkg/retrier"
)

const (
	defaultTimeout    = 60 * time.Second
	defaultMaxRetries = 2
	defaultRetryDelay = 2 * time.Second
)

// LLMClient defines the interface for the text-generation collaborator.
type LLMClient interface {
	// Complete sends a chat request and returns the raw model response.
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// OpenAICompatibleClient talks to any OpenAI-compatible chat-completions API.
type OpenAICompatibleClient struct {
	apiURL     string
	apiKey     string
	model      string
	httpClient *http.Client
	retrier    *retrier.Retrier
}

// NewOpenAICompatibleClient creates a new client for OpenAI-compatible APIs.
func NewOpenAICompatibleClient(apiURL, apiKey, model string) *OpenAICompatibleClient {
	return &OpenAICompatibleClient{
		apiURL: apiURL,
		apiKey: apiKey,
		model:  model,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		retrier: retrier.New(
			retrier.WithMaxRetries(defaultMaxRetries),
			retrier.WithInitialInterval(defaultRetryDelay),
		),
	}
}

// chatRequest represents the request structure for OpenAI-compatible APIs.
type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature,omitempty"`
	MaxTokens   int       `json:"max_tokens,omitempty"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse represents the response structure from OpenAI-compatible APIs.
type chatResponse struct {
	ID      string    `json:"id"`
	Object  string    `json:"object"`
	Created int64     `json:"created"`
	Model   string    `json:"model"`
	Choices []choice  `json:"choices"`
	Error   *apiError `json:"error,omitempty"`
}

type choice struct {
	Index        int     `json:"index"`
	Message      message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

type apiError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// Complete sends a chat request to the LLM API and returns the response text.
func (c *OpenAICompatibleClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("LLM API key is empty")
	}

	reqBody := chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Temperature: 0.7,
		MaxTokens:   1024,
	}

	return retrier.DoWithData(c.retrier, ctx, func(ctx context.Context) (string, error) {
		return c.sendRequest(ctx, reqBody)
	})
}

func (c *OpenAICompatibleClient) sendRequest(ctx context.Context, reqBody chatRequest) (string, error) {
	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", errors.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", errors.Wrap(err, "failed to create HTTP request")
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "HTTP request failed")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "failed to read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("LLM API returned status %d: %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return "", errors.Wrap(err, "failed to unmarshal response")
	}

	if chatResp.Error != nil {
		return "", fmt.Errorf("LLM API error: %s (type: %s, code: %s)",
			chatResp.Error.Message, chatResp.Error.Type, chatResp.Error.Code)
	}

	if len(chatResp.Choices) == 0 {
		return "", errors.New("LLM API returned no choices")
	}

	return chatResp.Choices[0].Message.Content, nil
}
