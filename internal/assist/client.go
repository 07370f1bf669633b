// Package assist wraps the chat-completions API used by the writing assistant.
package assist

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"blogpad/internal/models"
)

// Action selects the writing-assistant behavior.
type Action string

const (
	ActionGrammar     Action = "grammar"
	ActionImprove     Action = "improve"
	ActionSuggestions Action = "suggestions"
)

// Valid reports whether the action is one of the supported kinds.
func (a Action) Valid() bool {
	switch a {
	case ActionGrammar, ActionImprove, ActionSuggestions:
		return true
	}
	return false
}

// Prompt builds the completion prompt for the given text.
func (a Action) Prompt(text string) string {
	switch a {
	case ActionGrammar:
		return "Please check the following text for grammar, spelling, and punctuation errors. Return only the corrected text without explanations:\n\n" + text
	case ActionImprove:
		return "Please improve the following text to make it more engaging, clear, and well-written while maintaining the original meaning:\n\n" + text
	case ActionSuggestions:
		return "Please provide 3 brief suggestions to improve this text (grammar, clarity, style):\n\n" + text
	}
	return text
}

const defaultBaseURL = "https://api.openai.com/v1"

// Client calls a chat-completions compatible endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewClient returns a client for the given API key. baseURL overrides the
// OpenAI endpoint; pass "" for the default.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether an API key is set. Placeholder keys left over
// from .env templates count as unconfigured.
func (c *Client) Configured() bool {
	return c.apiKey != "" && c.apiKey != "your-openai-api-key" && c.apiKey != "your-openai-api-key-here"
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends a single-message completion request and returns the
// assistant's reply text.
func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model:       "gpt-3.5-turbo",
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		MaxTokens:   500,
		Temperature: 0.3,
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode completion request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", models.NewUpstreamError("AI assistance failed. Please try again.", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", models.NewUpstreamError("AI assistance failed. Please try again.", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", models.NewUpstreamError("AI assistance failed. Please try again.", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return "", models.NewUpstreamError("Invalid API key. Please check your OpenAI account.", nil)
	case parsed.Error != nil && parsed.Error.Code == "insufficient_quota":
		return "", models.NewUpstreamError("AI quota exceeded. Please check your OpenAI billing at platform.openai.com", nil)
	case resp.StatusCode != http.StatusOK:
		return "", models.NewUpstreamError("AI assistance failed. Please try again.", fmt.Errorf("completion API returned status %d", resp.StatusCode))
	case len(parsed.Choices) == 0:
		return "", models.NewUpstreamError("AI assistance failed. Please try again.", fmt.Errorf("completion API returned no choices"))
	}

	return strings.TrimSpace(parsed.Choices[0].Message.Content), nil
}
