package ai

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"

	"finspeak/internal/models"
)

const extractPrompt = `You are a personal finance assistant that extracts the expense amount and category from user input.

The user provides a free-form description of an expense. Extract two pieces of information:
1. The expense amount, as a number.
2. The expense category. The category must be one of the following: Food, Travel, Shopping, Entertainment, Bills, Other. If the category is not clear, classify to the 'Other' category.

Respond with a JSON object of the form {"amount": <number>, "category": "<category>"}.`

// Extraction is the normalized result of running free-form text through the
// extraction service.
type Extraction struct {
	Amount   float64         `json:"amount"`
	Category models.Category `json:"category"`
}

// Extract derives a structured {amount, category} pair from natural-language
// text. Categories the service cannot classify come back as Other. Any
// upstream failure wraps ErrExtraction; nothing is retried.
func (c *Client) Extract(ctx context.Context, text string) (Extraction, error) {
	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
	})
	if err != nil {
		return Extraction{}, fmt.Errorf("%w: %v", ErrExtraction, err)
	}
	if len(resp.Choices) == 0 {
		return Extraction{}, fmt.Errorf("%w: empty response", ErrExtraction)
	}

	var raw struct {
		Amount   float64 `json:"amount"`
		Category string  `json:"category"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &raw); err != nil {
		return Extraction{}, fmt.Errorf("%w: decode response: %v", ErrExtraction, err)
	}

	return Extraction{
		Amount:   raw.Amount,
		Category: models.ParseCategory(raw.Category),
	}, nil
}
