package runner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"
	"google.golang.org/genai"

	"github.com/datar-psa/genfair/api"
	"github.com/datar-psa/genfair/gemini"
	"github.com/datar-psa/genfair/openai"
)

// ErrUnsupportedProvider is returned when no generator backend exists for a
// model name. The message names the model so the caller can fail fast with
// something actionable instead of guessing.
var ErrUnsupportedProvider = errors.New("unsupported model provider")

// ResolveGenerator picks a generator backend from the model name, once at
// startup. GPT-style names go to the OpenAI chat-completion API, Gemini
// names to the Gemini API; anything else is unsupported.
func ResolveGenerator(ctx context.Context, modelName, apiKey string) (api.LLMGenerator, error) {
	name := strings.ToLower(modelName)
	switch {
	case strings.Contains(name, "gpt"):
		if apiKey == "" {
			return nil, fmt.Errorf("model %q needs an API key (--api-model-key)", modelName)
		}
		return openai.NewGenerator(goopenai.NewClient(apiKey), modelName, openai.GeneratorOptions{}), nil

	case strings.Contains(name, "gemini"):
		if apiKey == "" {
			return nil, fmt.Errorf("model %q needs an API key (--api-model-key)", modelName)
		}
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			Backend: genai.BackendGeminiAPI,
			APIKey:  apiKey,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return gemini.NewGenerator(client, modelName, gemini.GeneratorOptions{
			MaxOutputTokens: 200,
			Temperature:     0.95,
			TopP:            0.95,
		}), nil

	case strings.Contains(name, "claude"):
		return nil, fmt.Errorf("%w: %q: Anthropic models have no backend here; implement api.LLMGenerator against their SDK and pass it in directly", ErrUnsupportedProvider, modelName)

	default:
		return nil, fmt.Errorf("%w: %q: supported names contain \"gpt\" or \"gemini\"; for anything else pass your own api.LLMGenerator", ErrUnsupportedProvider, modelName)
	}
}
