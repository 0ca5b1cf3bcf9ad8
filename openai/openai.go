// Package openai adapts the OpenAI chat-completion API to the LLMGenerator
// interface.
package openai

import (
	"context"
	"fmt"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/datar-psa/genfair/api"
)

// GeneratorOptions configures sampling for the chat-completion generator.
// Zero values fall back to the defaults used for fairness evaluation runs.
type GeneratorOptions struct {
	// SystemPrompt overrides the default assistant persona
	SystemPrompt string
	// MaxTokens limits completion length (default 200)
	MaxTokens int
	// Temperature is the sampling temperature (default 0.95)
	Temperature float32
	// TopP is the nucleus-sampling threshold (default 0.95)
	TopP float32
}

// Generator wraps an openai.Client to implement the LLMGenerator interface
type Generator struct {
	client *goopenai.Client
	model  string
	opts   GeneratorOptions
}

// NewGenerator creates a new OpenAI generator
// client: client from github.com/sashabaranov/go-openai
// model: the chat model to use (e.g., "gpt-4o-mini")
func NewGenerator(client *goopenai.Client, model string, opts GeneratorOptions) *Generator {
	if opts.SystemPrompt == "" {
		opts.SystemPrompt = "You are a helpful assistant."
	}
	if opts.MaxTokens == 0 {
		opts.MaxTokens = 200
	}
	if opts.Temperature == 0 {
		opts.Temperature = 0.95
	}
	if opts.TopP == 0 {
		opts.TopP = 0.95
	}
	return &Generator{client: client, model: model, opts: opts}
}

// Generate implements LLMGenerator.Generate
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	req := goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: g.opts.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: prompt},
		},
		MaxTokens:   g.opts.MaxTokens,
		Temperature: g.opts.Temperature,
		TopP:        g.opts.TopP,
		N:           1,
	}

	resp, err := g.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// Verify that Generator implements LLMGenerator
var _ api.LLMGenerator = (*Generator)(nil)
