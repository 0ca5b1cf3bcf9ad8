package genfair

import (
	language "cloud.google.com/go/language/apiv1"
	"github.com/datar-psa/genfair/api"
	"github.com/datar-psa/genfair/embedding"
	"github.com/datar-psa/genfair/gemini"
	"github.com/datar-psa/genfair/heuristic"
	"github.com/datar-psa/genfair/perspective"
	"github.com/datar-psa/genfair/sentiment"
	"github.com/datar-psa/genfair/toxicity"
	"google.golang.org/genai"
)

type Score = api.Score
type Record = api.Record
type RecordScorer = api.RecordScorer

// GeminiOptions configures the Gemini-backed convenience constructors
type GeminiOptions struct {
	genaiClient *genai.Client
	modelName   string
	langClient  *language.Client
}

// WithGenaiClient sets the Gemini client
func WithGenaiClient(client *genai.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.genaiClient = client
	}
}

// WithModelName sets the model name
func WithModelName(modelName string) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.modelName = modelName
	}
}

// WithLanguageClient sets the Google Cloud Language client for sentiment
func WithLanguageClient(langClient *language.Client) func(*GeminiOptions) {
	return func(opts *GeminiOptions) {
		opts.langClient = langClient
	}
}

// Heuristic exposes convenient constructors for the scorers that need no
// external service: pronoun detection and answer extraction run locally.
type Heuristic struct{}

// NewHeuristic creates a new Heuristic.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// GenderDiversityRecognition returns a scorer that measures how evenly the
// model reproduces each prompted pronoun family.
func (h *Heuristic) GenderDiversityRecognition() api.RecordScorer {
	return heuristic.GenderDiversityRecognition()
}

// OccupationalFairness returns a scorer over occupation-state rows that
// measures how far detected pronoun families sit from a uniform spread.
func (h *Heuristic) OccupationalFairness() api.RecordScorer {
	return heuristic.OccupationalFairness()
}

// StereotypeAssociation returns the complementary scorer over the
// non-occupation rows.
func (h *Heuristic) StereotypeAssociation() api.RecordScorer {
	return heuristic.StereotypeAssociation()
}

type PerformanceEqualityOptions = heuristic.PerformanceEqualityOptions

// PerformanceEquality returns a scorer that compares numeric answer accuracy
// across pronoun families.
func (h *Heuristic) PerformanceEquality(opts PerformanceEqualityOptions) api.RecordScorer {
	return heuristic.PerformanceEquality(opts)
}

// Embedding wraps an embedder and exposes convenient constructors for embedding-based scorers.
type Embedding struct{ embedder api.Embedder }

// EmbeddingOptions configures Embedding creation
type EmbeddingOptions struct {
	embedder api.Embedder
}

// WithEmbedder sets the embedder for the embedding scorer
func WithEmbedder(embedder api.Embedder) func(*EmbeddingOptions) {
	return func(opts *EmbeddingOptions) {
		opts.embedder = embedder
	}
}

// NewEmbedding creates a new Embedding wrapper using functional options.
func NewEmbedding(opts ...func(*EmbeddingOptions)) *Embedding {
	options := &EmbeddingOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return &Embedding{embedder: options.embedder}
}

// NewGeminiEmbedding creates an Embedding using Gemini client and model name.
// Example model: "text-embedding-005".
func NewGeminiEmbedding(opts ...func(*GeminiOptions)) *Embedding {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var embeddingOptions []func(*EmbeddingOptions)

	// Only add embedder if genaiClient and modelName are provided
	if options.genaiClient != nil && options.modelName != "" {
		embeddingOptions = append(embeddingOptions, WithEmbedder(gemini.NewEmbedder(options.genaiClient, options.modelName)))
	}

	return NewEmbedding(embeddingOptions...)
}

type CounterfactualOptions = embedding.CounterfactualOptions

// Counterfactual returns a scorer that flags paired completions whose
// embeddings drift apart when only the pronoun changed.
func (e *Embedding) Counterfactual(opts CounterfactualOptions) api.RecordScorer {
	return embedding.Counterfactual(e.embedder, opts)
}

// Sentiment wraps a sentiment classifier.
type Sentiment struct{ classifier api.SentimentClassifier }

// SentimentOptions configures Sentiment creation
type SentimentOptions struct {
	classifier api.SentimentClassifier
}

// WithClassifier sets the sentiment classifier
func WithClassifier(classifier api.SentimentClassifier) func(*SentimentOptions) {
	return func(opts *SentimentOptions) {
		opts.classifier = classifier
	}
}

// NewSentiment creates a new Sentiment wrapper using functional options.
func NewSentiment(opts ...func(*SentimentOptions)) *Sentiment {
	options := &SentimentOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return &Sentiment{classifier: options.classifier}
}

// NewGeminiSentiment creates a Sentiment backed by the Google Cloud Natural
// Language API.
func NewGeminiSentiment(opts ...func(*GeminiOptions)) *Sentiment {
	options := &GeminiOptions{}
	for _, opt := range opts {
		opt(options)
	}

	var sentimentOptions []func(*SentimentOptions)

	if options.langClient != nil {
		sentimentOptions = append(sentimentOptions, WithClassifier(gemini.NewGoogleLanguageClassifier(options.langClient)))
	}

	return NewSentiment(sentimentOptions...)
}

// Neutrality returns a scorer that measures sentiment dispersion across
// pronoun variants of the same template.
func (s *Sentiment) Neutrality() api.RecordScorer {
	return sentiment.Neutrality(s.classifier)
}

// Toxicity wraps a toxicity provider.
type Toxicity struct{ provider api.ToxicityProvider }

// ToxicityOptions configures Toxicity creation
type ToxicityOptions struct {
	provider api.ToxicityProvider
}

// WithToxicityProvider sets the toxicity provider
func WithToxicityProvider(provider api.ToxicityProvider) func(*ToxicityOptions) {
	return func(opts *ToxicityOptions) {
		opts.provider = provider
	}
}

// NewToxicity creates a new Toxicity wrapper using functional options.
func NewToxicity(opts ...func(*ToxicityOptions)) *Toxicity {
	options := &ToxicityOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return &Toxicity{provider: options.provider}
}

// NewPerspectiveToxicity creates a Toxicity backed by the Perspective API.
func NewPerspectiveToxicity(apiKey string) *Toxicity {
	return NewToxicity(WithToxicityProvider(perspective.NewClient(apiKey, perspective.ClientOptions{})))
}

type NonToxicityOptions = toxicity.NonToxicityOptions

// NonToxicity returns a scorer that measures toxicity dispersion across
// pronoun variants of the same template.
func (t *Toxicity) NonToxicity(opts NonToxicityOptions) api.RecordScorer {
	return toxicity.NonToxicity(t.provider, opts)
}
