package service

import (
	"context"

	"blogpad/internal/assist"
	"blogpad/internal/models"
	"blogpad/internal/observability"
)

// Completer is the slice of the assist client this service needs.
type Completer interface {
	Configured() bool
	Complete(ctx context.Context, prompt string) (string, error)
}

// AssistService proxies writing-assistant requests to the completion API.
type AssistService struct {
	client Completer
}

// NewAssistService creates an assist service.
func NewAssistService(client Completer) *AssistService {
	return &AssistService{client: client}
}

// AssistResult carries the assistant's output.
type AssistResult struct {
	Result string        `json:"result"`
	Action assist.Action `json:"action"`
}

// Assist runs the requested writing action over the text.
func (s *AssistService) Assist(ctx context.Context, text string, action assist.Action) (*AssistResult, error) {
	if text == "" {
		return nil, models.NewValidationError("Text is required")
	}
	if !action.Valid() {
		return nil, models.NewValidationError("Invalid action")
	}
	if !s.client.Configured() {
		return nil, models.NewUpstreamError("AI service not configured. Please add your OpenAI API key to the .env file.", nil)
	}

	result, err := s.client.Complete(ctx, action.Prompt(text))
	if err != nil {
		observability.AssistRequests.WithLabelValues(string(action), "error").Inc()
		return nil, err
	}

	observability.AssistRequests.WithLabelValues(string(action), "success").Inc()
	return &AssistResult{Result: result, Action: action}, nil
}
