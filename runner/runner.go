// Package runner drives a full fairness evaluation: generating completions
// for every template file, scoring the generation logs, and averaging the
// sub-scores into one overall index.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/datar-psa/genfair/api"
	"github.com/datar-psa/genfair/dataset"
	"github.com/datar-psa/genfair/embedding"
	"github.com/datar-psa/genfair/heuristic"
	"github.com/datar-psa/genfair/sentiment"
	"github.com/datar-psa/genfair/stats"
	"github.com/datar-psa/genfair/toxicity"
)

// Files names the four generation logs one evaluation run consumes. The
// sentiment, toxicity and counterfactual scorers share one log.
type Files struct {
	Recognition string
	Shared      string
	Stereotype  string
	Math        string
}

// TemplateFiles names the four prompt-template tables a generation pass reads.
type TemplateFiles struct {
	Recognition string
	Shared      string
	Stereotype  string
	Math        string
}

// DefaultTemplateFiles returns the template table layout under dataDir.
func DefaultTemplateFiles(dataDir string) TemplateFiles {
	tpl := filepath.Join(dataDir, "template")
	return TemplateFiles{
		Recognition: filepath.Join(tpl, "tango_GDR-all-genders.csv"),
		Shared:      filepath.Join(tpl, "real-toxicity-prompts-all-genders.csv"),
		Stereotype:  filepath.Join(tpl, "SAOF_template-all-genders.csv"),
		Math:        filepath.Join(tpl, "math_gsm8k-all-genders.csv"),
	}
}

// GenerationFiles returns the generation-log layout for one model under dataDir.
func GenerationFiles(dataDir, model string) Files {
	gen := filepath.Join(dataDir, "model-generation")
	return Files{
		Recognition: filepath.Join(gen, "gender-pronoun-recognition", "tango_GDR-all-genders_"+model+".csv"),
		Shared:      filepath.Join(gen, "sentiment-toxicity-counterfactual", "real-toxicity-prompts-all-genders_"+model+".csv"),
		Stereotype:  filepath.Join(gen, "stereotype-occupation", "SAOF_template-all-genders_"+model+".csv"),
		Math:        filepath.Join(gen, "math-performance-equality", "math_gsm8k-all-genders_"+model+".csv"),
	}
}

// Options configures Runner creation. Generator is only needed for
// generation passes, the three service fields only for their scorers.
type Options struct {
	Generator api.LLMGenerator
	Embedder  api.Embedder
	Sentiment api.SentimentClassifier
	Toxicity  api.ToxicityProvider
	Logger    *slog.Logger
}

// Runner owns the external collaborators for one evaluation run.
type Runner struct {
	generator api.LLMGenerator
	embedder  api.Embedder
	sentiment api.SentimentClassifier
	toxicity  api.ToxicityProvider
	log       *slog.Logger
}

// New creates a Runner.
func New(opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Runner{
		generator: opts.Generator,
		embedder:  opts.Embedder,
		sentiment: opts.Sentiment,
		toxicity:  opts.Toxicity,
		log:       opts.Logger,
	}
}

// Generate reads one template table, produces a completion per row and
// writes the generation log. A generation failure aborts with the template
// index so the run can be reproduced from that row.
func (r *Runner) Generate(ctx context.Context, templatePath, outputPath string) error {
	if r.generator == nil {
		return fmt.Errorf("generator is required for a generation pass")
	}

	templates, err := dataset.ReadRecords(templatePath, dataset.ColTemplate)
	if err != nil {
		return err
	}

	r.log.Info("generating completions", "templates", templatePath, "rows", len(templates), "output", outputPath)
	out := make([]api.Record, 0, len(templates))
	for _, tpl := range templates {
		text, err := r.generator.Generate(ctx, tpl.Template)
		if err != nil {
			return fmt.Errorf("generate for template %d (%s): %w", tpl.TemplateIndex, templatePath, err)
		}
		rec := tpl
		rec.Generated = text
		out = append(out, rec)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	if err := dataset.WriteRecords(outputPath, out); err != nil {
		return err
	}
	r.log.Info("saved generation log", "path", outputPath)
	return nil
}

// GenerateAll runs a generation pass for every template file.
func (r *Runner) GenerateAll(ctx context.Context, templates TemplateFiles, out Files) error {
	passes := []struct{ in, out string }{
		{templates.Recognition, out.Recognition},
		{templates.Shared, out.Shared},
		{templates.Stereotype, out.Stereotype},
		{templates.Math, out.Math},
	}
	for _, p := range passes {
		if err := r.Generate(ctx, p.in, p.out); err != nil {
			return err
		}
	}
	return nil
}

// Report carries the per-scorer results and their arithmetic mean.
type Report struct {
	Scores  []api.Score
	Overall float64
}

// Evaluate runs all seven scorers against the generation logs and averages
// their values into the overall index. A scorer error is logged and its zero
// score still enters the mean, so a degenerate input never yields a NaN.
func (r *Runner) Evaluate(ctx context.Context, files Files) (Report, error) {
	recognition, err := dataset.ReadRecords(files.Recognition, dataset.ColGenerated)
	if err != nil {
		return Report{}, fmt.Errorf("recognition log: %w", err)
	}
	shared, err := dataset.ReadRecords(files.Shared, dataset.ColGenerated)
	if err != nil {
		return Report{}, fmt.Errorf("shared log: %w", err)
	}
	stereotype, err := dataset.ReadRecords(files.Stereotype, dataset.ColGenerated, dataset.ColState)
	if err != nil {
		return Report{}, fmt.Errorf("stereotype log: %w", err)
	}
	math, err := dataset.ReadRecords(files.Math, dataset.ColGenerated, dataset.ColSimpleAnswer)
	if err != nil {
		return Report{}, fmt.Errorf("math log: %w", err)
	}

	runs := []struct {
		scorer  api.RecordScorer
		records []api.Record
	}{
		{heuristic.GenderDiversityRecognition(), recognition},
		{sentiment.Neutrality(r.sentiment), shared},
		{embedding.Counterfactual(r.embedder, embedding.CounterfactualOptions{}), shared},
		{toxicity.NonToxicity(r.toxicity, toxicity.NonToxicityOptions{}), shared},
		{heuristic.OccupationalFairness(), stereotype},
		{heuristic.StereotypeAssociation(), stereotype},
		{heuristic.PerformanceEquality(heuristic.PerformanceEqualityOptions{}), math},
	}

	report := Report{Scores: make([]api.Score, 0, len(runs))}
	values := make([]float64, 0, len(runs))
	for _, run := range runs {
		score := run.scorer.Score(ctx, run.records)
		if score.Error != nil {
			r.log.Warn("scorer failed", "scorer", score.Name, "error", score.Error)
		} else {
			r.log.Info("scored", "scorer", score.Name, "score", fmt.Sprintf("%.4f", score.Score))
		}
		report.Scores = append(report.Scores, score)
		values = append(values, score.Score)
	}
	report.Overall = stats.Mean(values)
	r.log.Info("overall fairness index", "score", fmt.Sprintf("%.4f", report.Overall))
	return report, nil
}

// Run is the full pipeline: generate every log, then evaluate them.
func (r *Runner) Run(ctx context.Context, dataDir, model string) (Report, error) {
	files := GenerationFiles(dataDir, model)
	if err := r.GenerateAll(ctx, DefaultTemplateFiles(dataDir), files); err != nil {
		return Report{}, err
	}
	return r.Evaluate(ctx, files)
}
