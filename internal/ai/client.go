// Package ai wraps an OpenAI-compatible endpoint for note
// categorization. The client is optional: when unconfigured the service
// runs on the rule catalog alone, and any failure here degrades to the
// same fallback.
package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/sashabaranov/go-openai"

	"notekeeper/internal/models"
)

type Client struct {
	client *openai.Client
	model  string
}

func New(apiKey, baseURL, model string) *Client {
	config := openai.DefaultConfig(apiKey)
	config.BaseURL = baseURL

	return &Client{
		client: openai.NewClientWithConfig(config),
		model:  model,
	}
}

const categorizationPrompt = `Categorize this note as 'task', 'idea', 'quote', or 'other'. Return only the category.`

// CategorizeNote asks the model for a single category label. The
// response is normalized and validated; anything outside the fixed
// enumeration is an error so the caller falls back to the rule catalog.
func (c *Client) CategorizeNote(ctx context.Context, text string) (models.Category, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: categorizationPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: text,
			},
		},
		Temperature: 0.1,
		MaxTokens:   10,
	})
	if err != nil {
		return "", fmt.Errorf("failed to call AI API: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response from AI")
	}

	label := cleanLabel(resp.Choices[0].Message.Content)
	if !models.ValidCategory(label) {
		return "", fmt.Errorf("invalid category from AI: %q", label)
	}
	return models.Category(label), nil
}

// cleanLabel strips quoting and punctuation models tend to wrap around
// a one-word answer.
func cleanLabel(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Trim(s, `"'.`+"`")
	if i := strings.IndexAny(s, " \n"); i >= 0 {
		s = s[:i]
	}
	return s
}
