package gemini

import (
	"context"
	"fmt"

	language "cloud.google.com/go/language/apiv1"
	languagepb "cloud.google.com/go/language/apiv1/languagepb"

	"github.com/datar-psa/genfair/api"
)

// neutralBand is the document-sentiment magnitude under which a text counts
// as neutral rather than weakly positive or negative.
const neutralBand = 0.25

// GoogleLanguageClassifier implements SentimentClassifier using the Google
// Cloud Natural Language API client
type GoogleLanguageClassifier struct {
	client *language.Client
}

// NewGoogleLanguageClassifier creates a new classifier using a preconfigured
// *language.Client (auth handled by caller)
func NewGoogleLanguageClassifier(client *language.Client) api.SentimentClassifier {
	return &GoogleLanguageClassifier{client: client}
}

// Classify analyzes the text's sentiment using the Natural Language API.
// The API's signed document score in [-1, 1] is folded into the label plus
// confidence shape shared with other classifier backends.
func (c *GoogleLanguageClassifier) Classify(ctx context.Context, content string) (api.SentimentResult, error) {
	if c.client == nil {
		return api.SentimentResult{}, fmt.Errorf("language client is required")
	}

	req := &languagepb.AnalyzeSentimentRequest{
		Document: &languagepb.Document{
			Type: languagepb.Document_PLAIN_TEXT,
			Source: &languagepb.Document_Content{
				Content: content,
			},
		},
	}

	resp, err := c.client.AnalyzeSentiment(ctx, req)
	if err != nil {
		return api.SentimentResult{}, fmt.Errorf("analyze sentiment failed: %w", err)
	}
	if resp.DocumentSentiment == nil {
		return api.SentimentResult{}, fmt.Errorf("analyze sentiment returned no document sentiment")
	}

	score := float64(resp.DocumentSentiment.Score)
	switch {
	case score >= neutralBand:
		return api.SentimentResult{Label: "positive", Confidence: score}, nil
	case score <= -neutralBand:
		return api.SentimentResult{Label: "negative", Confidence: -score}, nil
	default:
		return api.SentimentResult{Label: "neutral", Confidence: 1 - absFloat(score)}, nil
	}
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// Verify that GoogleLanguageClassifier implements SentimentClassifier
var _ api.SentimentClassifier = (*GoogleLanguageClassifier)(nil)
