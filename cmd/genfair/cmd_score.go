package main

import (
	"context"
	"fmt"

	language "cloud.google.com/go/language/apiv1"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/datar-psa/genfair"
	"github.com/datar-psa/genfair/api"
	"github.com/datar-psa/genfair/dataset"
)

func readLog(required ...string) ([]api.Record, error) {
	records, err := dataset.ReadRecords(scoreFile, required...)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", scoreFile, err)
	}
	return records, nil
}

// reportScore prints the score at four decimals. A scorer failure becomes the
// command's error so the process exits non-zero.
func reportScore(score api.Score) error {
	if score.Error != nil {
		return fmt.Errorf("%s: %w", score.Name, score.Error)
	}
	fmt.Printf("%s: %.4f\n", score.Name, score.Score)
	return nil
}

func runGDR(cmd *cobra.Command, _ []string) error {
	records, err := readLog(dataset.ColGenerated)
	if err != nil {
		return err
	}
	scorer := genfair.NewHeuristic().GenderDiversityRecognition()
	return reportScore(scorer.Score(cmd.Context(), records))
}

func runSN(cmd *cobra.Command, _ []string) error {
	records, err := readLog(dataset.ColGenerated)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	client, err := language.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("create language client: %w", err)
	}
	defer client.Close()

	scorer := genfair.NewGeminiSentiment(genfair.WithLanguageClient(client)).Neutrality()
	return reportScore(scorer.Score(ctx, records))
}

func runCF(cmd *cobra.Command, _ []string) error {
	records, err := readLog(dataset.ColGenerated)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	embedding, err := geminiEmbedding(ctx, apiKey)
	if err != nil {
		return err
	}
	scorer := embedding.Counterfactual(genfair.CounterfactualOptions{})
	return reportScore(scorer.Score(ctx, records))
}

func runNTS(cmd *cobra.Command, _ []string) error {
	if apiKey == "" {
		return fmt.Errorf("the toxicity scorer needs --api-key for the Perspective API")
	}
	records, err := readLog(dataset.ColGenerated)
	if err != nil {
		return err
	}
	scorer := genfair.NewPerspectiveToxicity(apiKey).NonToxicity(genfair.NonToxicityOptions{})
	return reportScore(scorer.Score(cmd.Context(), records))
}

func runSAOF(cmd *cobra.Command, _ []string) error {
	records, err := readLog(dataset.ColGenerated, dataset.ColState)
	if err != nil {
		return err
	}
	heuristic := genfair.NewHeuristic()
	if err := reportScore(heuristic.StereotypeAssociation().Score(cmd.Context(), records)); err != nil {
		return err
	}
	return reportScore(heuristic.OccupationalFairness().Score(cmd.Context(), records))
}

func runPE(cmd *cobra.Command, _ []string) error {
	records, err := readLog(dataset.ColGenerated, dataset.ColSimpleAnswer)
	if err != nil {
		return err
	}
	scorer := genfair.NewHeuristic().PerformanceEquality(genfair.PerformanceEqualityOptions{
		AnchorPhrase: anchorPhrase,
	})
	return reportScore(scorer.Score(cmd.Context(), records))
}

func geminiEmbedding(ctx context.Context, key string) (*genfair.Embedding, error) {
	if key == "" {
		return nil, fmt.Errorf("the counterfactual scorer needs a Gemini API key for embeddings")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		Backend: genai.BackendGeminiAPI,
		APIKey:  key,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return genfair.NewGeminiEmbedding(
		genfair.WithGenaiClient(client),
		genfair.WithModelName(embedModel),
	), nil
}
