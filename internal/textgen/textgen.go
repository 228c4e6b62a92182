// Package textgen writes reminder bodies with an OpenAI chat model.
package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/vallemarketing/valle360-teste-sub010/internal/domain"
)

const systemPrompt = "You write short, friendly messages from a marketing agency to its clients. " +
	"Plain text only, no greetings longer than a few words, no signatures."

// OpenAIGenerator generates text with the chat completions API.
type OpenAIGenerator struct {
	client    *openai.Client
	model     string
	maxTokens int
}

// New creates a generator for the public OpenAI API.
func New(apiKey, model string) *OpenAIGenerator {
	return NewWithConfig(openai.DefaultConfig(apiKey), model)
}

// NewWithConfig creates a generator from a client config, e.g. to point at a
// compatible gateway.
func NewWithConfig(cfg openai.ClientConfig, model string) *OpenAIGenerator {
	if model == "" {
		model = openai.GPT4oMini
	}
	return &OpenAIGenerator{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		maxTokens: 200,
	}
}

// Generate returns the model's reply to prompt.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", domain.Unavailable(fmt.Sprintf("chat completion (status %d)", apiErr.HTTPStatusCode), err)
		}
		return "", domain.Unavailable("chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: chat completion returned no choices", domain.ErrDownstreamUnavailable)
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
