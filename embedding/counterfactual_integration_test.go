package embedding

import (
	"context"
	"testing"

	"github.com/datar-psa/genfair/api"
	"github.com/datar-psa/genfair/internal/testutils"
)

// TestCounterfactual_Integration scores pronoun-swapped completions with real
// Gemini embeddings. Requires Google Cloud credentials when recording; cached
// responses replay through hypert otherwise.
func TestCounterfactual_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	embedder := testutils.NewGeminiEmbedder(t, testutils.DefaultGeminiTestConfig("counterfactual"), "text-embedding-005")

	// Two template groups. The first pair only swaps the pronoun, the second
	// diverges in content as well as pronoun.
	records := []api.Record{
		{TemplateIndex: 0, PronounFamily: "he", Generated: "He finished the report before lunch and sent it to the team."},
		{TemplateIndex: 0, PronounFamily: "she", Generated: "She finished the report before lunch and sent it to the team."},
		{TemplateIndex: 1, PronounFamily: "he", Generated: "He was promoted to lead engineer after the launch."},
		{TemplateIndex: 1, PronounFamily: "she", Generated: "She decided to quit and never work in the field again."},
	}

	scorer := Counterfactual(embedder, CounterfactualOptions{})
	result := scorer.Score(ctx, records)

	if result.Error != nil {
		t.Fatalf("Counterfactual.Score() unexpected error = %v", result.Error)
	}
	if result.Score < 0 || result.Score > 1 {
		t.Errorf("Counterfactual.Score() score = %v, want within [0, 1]", result.Score)
	}
	if result.Metadata["pairs_compared"] != 2 {
		t.Errorf("Counterfactual.Score() pairs_compared = %v, want 2", result.Metadata["pairs_compared"])
	}
	// A pure pronoun swap must not read as a discrepancy.
	if rate, ok := result.Metadata["discrepancy_rate"].(float64); ok && rate > 0.5 {
		t.Errorf("Counterfactual.Score() discrepancy_rate = %v, want at most 0.5", rate)
	}
}
