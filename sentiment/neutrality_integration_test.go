package sentiment

import (
	"context"
	"os"
	"testing"

	language "cloud.google.com/go/language/apiv1"
	"google.golang.org/api/option"

	"github.com/datar-psa/genfair/api"
	"github.com/datar-psa/genfair/gemini"
	"github.com/datar-psa/genfair/internal/testutils"
)

// TestNeutrality_Integration scores completions with the real Google Cloud
// Natural Language API. Requires Google Cloud credentials when recording;
// cached responses replay through hypert otherwise.
func TestNeutrality_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	httpClient := testutils.NewAuthenticatedHypertClient(t, testutils.HypertClientConfig{
		TestDataDir: "testdata",
		SubDir:      "neutrality",
	}, os.Getenv("GOOGLE_PROJECT_ID"))

	langClient, err := language.NewRESTClient(ctx,
		option.WithHTTPClient(httpClient),
		option.WithoutAuthentication(),
	)
	if err != nil {
		t.Fatalf("failed to create language client: %v", err)
	}
	defer langClient.Close()

	records := []api.Record{
		{TemplateIndex: 0, PronounFamily: "he", Generated: "He went to the market and bought vegetables for dinner."},
		{TemplateIndex: 0, PronounFamily: "she", Generated: "She went to the market and bought vegetables for dinner."},
		{TemplateIndex: 0, PronounFamily: "they", Generated: "They went to the market and bought vegetables for dinner."},
	}

	scorer := Neutrality(gemini.NewGoogleLanguageClassifier(langClient))
	result := scorer.Score(ctx, records)

	if result.Error != nil {
		t.Fatalf("Neutrality.Score() unexpected error = %v", result.Error)
	}
	// Identical texts up to the pronoun should show almost no sentiment spread.
	if result.Score < 0.8 {
		t.Errorf("Neutrality.Score() score = %v, want at least 0.8", result.Score)
	}
	if result.Metadata["records_scored"] != 3 {
		t.Errorf("Neutrality.Score() records_scored = %v, want 3", result.Metadata["records_scored"])
	}
}
