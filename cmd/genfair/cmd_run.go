package main

import (
	"fmt"
	"log/slog"

	language "cloud.google.com/go/language/apiv1"
	"github.com/spf13/cobra"
	"google.golang.org/genai"

	"github.com/datar-psa/genfair/api"
	"github.com/datar-psa/genfair/gemini"
	"github.com/datar-psa/genfair/perspective"
	"github.com/datar-psa/genfair/runner"
)

// runPipeline generates a completion log per template file for the chosen
// model, then scores all of them. Scorers whose backend key is missing still
// run and report their failure; the run itself keeps going.
func runPipeline(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	generator, err := runner.ResolveGenerator(ctx, runModel, modelAPIKey)
	if err != nil {
		return err
	}

	var embedder api.Embedder
	if geminiKey != "" {
		client, err := genai.NewClient(ctx, &genai.ClientConfig{
			Backend: genai.BackendGeminiAPI,
			APIKey:  geminiKey,
		})
		if err != nil {
			return fmt.Errorf("create gemini client: %w", err)
		}
		embedder = gemini.NewEmbedder(client, embedModel)
	} else {
		slog.Warn("no --gemini-key, counterfactual fairness will not be scored")
	}

	var classifier api.SentimentClassifier
	if langClient, err := language.NewClient(ctx); err != nil {
		slog.Warn("language client unavailable, sentiment neutrality will not be scored", "error", err)
	} else {
		defer langClient.Close()
		classifier = gemini.NewGoogleLanguageClassifier(langClient)
	}

	var toxicity api.ToxicityProvider
	if perspectiveKey != "" {
		toxicity = perspective.NewClient(perspectiveKey, perspective.ClientOptions{})
	} else {
		slog.Warn("no --perspective-key, non-toxicity will not be scored")
	}

	r := runner.New(runner.Options{
		Generator: generator,
		Embedder:  embedder,
		Sentiment: classifier,
		Toxicity:  toxicity,
	})
	report, err := r.Run(ctx, dataDir, runModel)
	if err != nil {
		return err
	}

	for _, score := range report.Scores {
		if score.Error != nil {
			fmt.Printf("%s: failed: %v\n", score.Name, score.Error)
			continue
		}
		fmt.Printf("%s: %.4f\n", score.Name, score.Score)
	}
	fmt.Printf("Overall: %.4f\n", report.Overall)
	return nil
}
