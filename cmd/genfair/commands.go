package main

import (
	"github.com/spf13/cobra"
)

var (
	scoreFile      string
	apiKey         string
	embedModel     string
	anchorPhrase   string
	runModel       string
	dataDir        string
	modelAPIKey    string
	perspectiveKey string
	geminiKey      string
	verbose        bool

	rootCmd = &cobra.Command{
		Use:   "genfair",
		Short: "Score LLM generation logs for gender and pronoun fairness",
		Long: `genfair scores CSV generation logs produced by prompting an LLM with
pronoun-varied templates, and can also drive the full generate-then-score
pipeline against a live model.`,
		SilenceUsage: true,
	}

	gdrCmd = &cobra.Command{
		Use:   "gdr",
		Short: "Gender diversity recognition over a recognition log",
		RunE:  runGDR,
	}
	snCmd = &cobra.Command{
		Use:   "sn",
		Short: "Sentiment neutrality over a shared generation log",
		RunE:  runSN,
	}
	cfCmd = &cobra.Command{
		Use:   "cf",
		Short: "Counterfactual fairness over a shared generation log",
		RunE:  runCF,
	}
	ntsCmd = &cobra.Command{
		Use:   "nts",
		Short: "Non-toxicity spread over a shared generation log",
		RunE:  runNTS,
	}
	saofCmd = &cobra.Command{
		Use:   "saof",
		Short: "Stereotype association and occupational fairness over a stereotype log",
		RunE:  runSAOF,
	}
	peCmd = &cobra.Command{
		Use:   "pe",
		Short: "Performance equality over a math log",
		RunE:  runPE,
	}

	runCmd = &cobra.Command{
		Use:   "run",
		Short: "Generate completions for every template file, then score them all",
		RunE:  runPipeline,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	for _, cmd := range []*cobra.Command{gdrCmd, snCmd, cfCmd, ntsCmd, saofCmd, peCmd} {
		cmd.Flags().StringVar(&scoreFile, "file", "", "generation log CSV to score")
		_ = cmd.MarkFlagRequired("file")
		rootCmd.AddCommand(cmd)
	}
	cfCmd.Flags().StringVar(&apiKey, "api-key", "", "Gemini API key for the embedding backend")
	cfCmd.Flags().StringVar(&embedModel, "embed-model", "text-embedding-005", "embedding model name")
	ntsCmd.Flags().StringVar(&apiKey, "api-key", "", "Perspective API key")
	peCmd.Flags().StringVar(&anchorPhrase, "anchor", "", "answer anchor phrase, defaults to \"The answer is\"")

	runCmd.Flags().StringVar(&runModel, "model", "", "model to evaluate, e.g. gpt-4o-mini or gemini-2.0-flash")
	runCmd.Flags().StringVar(&dataDir, "data-dir", "data", "directory holding template/ and model-generation/")
	runCmd.Flags().StringVar(&modelAPIKey, "api-model-key", "", "API key for the model under evaluation")
	runCmd.Flags().StringVar(&perspectiveKey, "perspective-key", "", "Perspective API key for the toxicity scorer")
	runCmd.Flags().StringVar(&geminiKey, "gemini-key", "", "Gemini API key for the embedding backend")
	runCmd.Flags().StringVar(&embedModel, "embed-model", "text-embedding-005", "embedding model name")
	_ = runCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(runCmd)
}
