package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"

	"finspeak/internal/models"
)

// maxToolRounds bounds the tool-calling conversation so a misbehaving model
// cannot loop forever.
const maxToolRounds = 4

const answerPrompt = `You are a friendly and helpful personal finance assistant. The user will ask you a question about their spending based on the expense data provided.

Analyze the data and answer their question in a clear, conversational, and helpful tone.

If the user asks about a stock price, use the getStockPrice tool to get the current price and include it in your answer.`

// TipsRequest asks for a list of short, actionable finance tips. When
// Expenses is non-empty the tips are grounded in that data; otherwise they
// are generic tips on Topic (or general finance when Topic is empty). Count
// is a target, not a guarantee; zero means 3.
type TipsRequest struct {
	Topic    string
	Count    int
	Expenses []models.Expense
}

// GenerateTips returns tips in display order. Upstream failures wrap
// ErrAdvisory and return no partial results.
func (c *Client) GenerateTips(ctx context.Context, req TipsRequest) ([]string, error) {
	if req.Count <= 0 {
		req.Count = 3
	}

	var prompt strings.Builder
	prompt.WriteString("You are a personal finance expert and advisory chatbot. Your goal is to help users improve their financial health.\n\n")
	if len(req.Expenses) > 0 {
		prompt.WriteString("You have been provided with the user's recent expense data. Analyze their spending habits and provide ")
		prompt.WriteString(strconv.Itoa(req.Count))
		prompt.WriteString(" pieces of personalized, actionable advice. For example, suggest reducing spending in a specific category and redirecting the savings towards a goal. Be specific and encouraging.\nHere are the recent expenses:\n")
		prompt.WriteString(formatExpenses(req.Expenses))
	} else {
		prompt.WriteString("Generate a list of ")
		prompt.WriteString(strconv.Itoa(req.Count))
		prompt.WriteString(" personal finance tips.\n")
	}
	if req.Topic != "" {
		prompt.WriteString("\nThe tips should be related to the following topic: ")
		prompt.WriteString(req.Topic)
		prompt.WriteString(".\n")
	}
	prompt.WriteString("\nThe tips should be concise and actionable.\nRespond with a JSON object of the form {\"tips\": [\"...\"]}.")

	resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.cfg.Model,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: prompt.String()},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAdvisory, err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrAdvisory)
	}

	var raw struct {
		Tips []string `json:"tips"`
	}
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &raw); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrAdvisory, err)
	}
	return raw.Tips, nil
}

// AnswerQuestion gives a conversational answer to a free-text question,
// grounded in the supplied expense history. When the model requests the
// stock-price tool the injected PriceLookup serves it and the conversation
// continues until the model produces a final answer. Failures wrap
// ErrAdvisory.
func (c *Client) AnswerQuestion(ctx context.Context, query string, expenses []models.Expense) (string, error) {
	user := fmt.Sprintf("User's Question: %s\n\nExpense Data:\n%s", query, formatExpenses(expenses))

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: answerPrompt},
		{Role: openai.ChatMessageRoleUser, Content: user},
	}

	for round := 0; round < maxToolRounds; round++ {
		resp, err := c.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model:    c.cfg.Model,
			Messages: messages,
			Tools:    []openai.Tool{stockPriceTool()},
		})
		if err != nil {
			return "", fmt.Errorf("%w: %v", ErrAdvisory, err)
		}
		if len(resp.Choices) == 0 {
			return "", fmt.Errorf("%w: empty response", ErrAdvisory)
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			return msg.Content, nil
		}

		messages = append(messages, msg)
		for _, call := range msg.ToolCalls {
			quote, err := c.servePriceCall(ctx, call)
			if err != nil {
				return "", err
			}
			messages = append(messages, openai.ChatCompletionMessage{
				Role:       openai.ChatMessageRoleTool,
				ToolCallID: call.ID,
				Name:       call.Function.Name,
				Content:    quote,
			})
		}
	}

	return "", fmt.Errorf("%w: tool calls did not settle after %d rounds", ErrAdvisory, maxToolRounds)
}

func (c *Client) servePriceCall(ctx context.Context, call openai.ToolCall) (string, error) {
	var args struct {
		Ticker string `json:"ticker"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return "", fmt.Errorf("%w: decode tool arguments: %v", ErrAdvisory, err)
	}

	if c.log != nil {
		c.log.WithField("ticker", args.Ticker).Debug("looking up stock price")
	}
	price, err := c.prices.Price(ctx, args.Ticker)
	if err != nil {
		return "", fmt.Errorf("%w: price lookup: %v", ErrAdvisory, err)
	}
	return strconv.FormatFloat(price, 'f', 2, 64), nil
}

func stockPriceTool() openai.Tool {
	return openai.Tool{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "getStockPrice",
			Description: "Returns the current market value of a stock for a given ticker symbol.",
			Parameters: jsonschema.Definition{
				Type: jsonschema.Object,
				Properties: map[string]jsonschema.Definition{
					"ticker": {
						Type:        jsonschema.String,
						Description: `The ticker symbol of the stock (e.g., "GOOGL", "AAPL").`,
					},
				},
				Required: []string{"ticker"},
			},
		},
	}
}
