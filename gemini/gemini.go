package gemini

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/datar-psa/genfair/api"
)

// GeneratorOptions configures sampling for the Gemini generator.
// Zero values leave the model defaults in place.
type GeneratorOptions struct {
	// MaxOutputTokens limits completion length
	MaxOutputTokens int32
	// Temperature is the sampling temperature
	Temperature float32
	// TopP is the nucleus-sampling threshold
	TopP float32
}

// Generator wraps a genai.Client to implement the LLMGenerator interface
type Generator struct {
	client    *genai.Client
	modelName string
	opts      GeneratorOptions
}

// NewGenerator creates a new Gemini generator
// client: genai.Client from google.golang.org/genai
// modelName: the model to use (e.g., "gemini-2.5-flash")
func NewGenerator(client *genai.Client, modelName string, opts GeneratorOptions) *Generator {
	return &Generator{
		client:    client,
		modelName: modelName,
		opts:      opts,
	}
}

// Generate implements LLMGenerator.Generate
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	content := &genai.Content{
		Role: "user",
		Parts: []*genai.Part{
			{Text: prompt},
		},
	}

	// One candidate per prompt: the evaluation compares single completions.
	config := &genai.GenerateContentConfig{
		CandidateCount: 1,
	}
	if g.opts.MaxOutputTokens > 0 {
		config.MaxOutputTokens = g.opts.MaxOutputTokens
	}
	if g.opts.Temperature > 0 {
		config.Temperature = genai.Ptr(g.opts.Temperature)
	}
	if g.opts.TopP > 0 {
		config.TopP = genai.Ptr(g.opts.TopP)
	}

	resp, err := g.client.Models.GenerateContent(
		ctx,
		g.modelName,
		[]*genai.Content{content},
		config,
	)
	if err != nil {
		return "", fmt.Errorf("failed to generate content: %w", err)
	}

	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("no candidates returned")
	}

	if len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("no parts in response")
	}

	return resp.Candidates[0].Content.Parts[0].Text, nil
}

// Verify that Generator implements LLMGenerator
var _ api.LLMGenerator = (*Generator)(nil)
