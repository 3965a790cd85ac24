// Package llm enriches generated payloads with model-written examples.
// It is optional: nothing in the toolkit requires an API key, and every
// model reply is re-validated against the contract before use.
package llm

import (
	"context"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
)

const systemPrompt = "You are a test data generator for REST APIs. " +
	"Respond with a single JSON value and nothing else."

// Client produces a completion for a prompt.
type Client interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Config carries the model settings, usually from the shared CLI config.
type Config struct {
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// Enabled reports whether the config can reach a model at all.
func (c Config) Enabled() bool { return c.APIKey != "" }

func (c Config) withDefaults() Config {
	if c.Model == "" {
		c.Model = openai.GPT4
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = 1024
	}
	return c
}

// OpenAI is the Client implementation backed by the OpenAI chat API.
type OpenAI struct {
	client *openai.Client
	config Config
}

func NewOpenAI(config Config) *OpenAI {
	config = config.withDefaults()
	return &OpenAI{
		client: openai.NewClient(config.APIKey),
		config: config,
	}
}

func (c *OpenAI) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.config.Model,
		Temperature: float32(c.config.Temperature),
		MaxTokens:   c.config.MaxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
