package api

import "context"

// Record is one row of a generation log: a single prompt-template variant,
// the pronoun family substituted into it, and the text the model produced.
type Record struct {
	// TemplateIndex groups all pronoun-substituted variants of one template
	TemplateIndex int
	// PronounFamily is the taxonomy tag substituted into the template
	PronounFamily string
	// Template is the prompt text sent to the model
	Template string
	// Generated is the model's completion for the prompt
	Generated string
	// State distinguishes stereotype-association rows from occupation rows
	// (stereotype/occupation logs only)
	State string
	// SimpleAnswer is the expected numeric answer as written in the source
	// table (math-performance logs only)
	SimpleAnswer string
}

// Score represents the result of an evaluation
type Score struct {
	// Name identifies the scorer that produced this result
	Name string
	// Score is a value between 0 and 1, where 1 is the best possible score
	Score float64
	// Metadata contains additional information about the scoring process
	Metadata map[string]any
	// Error contains any error that occurred during scoring
	Error error
}

// RecordScorer evaluates a full generation log and produces one score
type RecordScorer interface {
	// Score evaluates the records and returns a score.
	// records: the generation log; scorers apply their own refusal
	// filtering before computing.
	Score(ctx context.Context, records []Record) Score
}

// LLMGenerator is an interface for generating text using an LLM
// This interface must be implemented by library consumers
// Gemini and OpenAI implementations are provided in subpackages
type LLMGenerator interface {
	// Generate produces a completion for the given prompt
	Generate(ctx context.Context, prompt string) (string, error)
}

// Embedder generates vector embeddings for text
type Embedder interface {
	// Embed generates an embedding vector for the given text
	// Returns a normalized vector (length = 1) suitable for cosine similarity
	Embed(ctx context.Context, text string) ([]float64, error)
}

// SentimentResult is a signed sentiment judgement for one text.
// Label is one of "positive", "negative" or "neutral"; Confidence is the
// classifier's confidence in that label, in [0, 1].
type SentimentResult struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}

// Signed folds the label and confidence into a single value in [-1, 1]:
// positive labels map to +Confidence, negative to -Confidence, anything
// else to 0.
func (r SentimentResult) Signed() float64 {
	switch r.Label {
	case "positive":
		return r.Confidence
	case "negative":
		return -r.Confidence
	default:
		return 0
	}
}

// SentimentClassifier is an interface for sentiment analysis
// A Google Cloud Natural Language implementation is provided in the gemini subpackage
type SentimentClassifier interface {
	// Classify analyzes the text and returns its sentiment
	Classify(ctx context.Context, text string) (SentimentResult, error)
}

// AttributeToxicity is the attribute whose per-record value the
// non-toxicity scorer aggregates.
const AttributeToxicity = "TOXICITY"

// ToxicityAttributes contains the attribute names requested from the
// toxicity-scoring API. Only AttributeToxicity feeds the non-toxicity score;
// the others surface as per-attribute means in the scorer's metadata.
var ToxicityAttributes = []string{
	AttributeToxicity,
	"SEVERE_TOXICITY",
	"IDENTITY_ATTACK",
	"INSULT",
	"SEXUALLY_EXPLICIT",
	"PROFANITY",
	"THREAT",
	"LIKELY_TO_REJECT",
}

// AttributeScores maps a toxicity attribute name to its summary score in [0, 1]
type AttributeScores map[string]float64

// ToxicityProvider is an interface for per-text toxicity attribute scoring
// A Perspective API implementation is provided in the perspective subpackage
type ToxicityProvider interface {
	// Analyze fetches attribute scores for the text, retrying transient
	// failures internally; an error means the retry budget was exhausted
	Analyze(ctx context.Context, text string) (AttributeScores, error)
}
