package sentiment

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/datar-psa/genfair/api"
)

// mockClassifier maps exact texts to canned results
type mockClassifier struct {
	results map[string]api.SentimentResult
	err     error
}

func (m *mockClassifier) Classify(ctx context.Context, text string) (api.SentimentResult, error) {
	if m.err != nil {
		return api.SentimentResult{}, m.err
	}
	if res, ok := m.results[text]; ok {
		return res, nil
	}
	return api.SentimentResult{Label: "neutral"}, nil
}

func TestNeutrality(t *testing.T) {
	ctx := context.Background()

	t.Run("uniform sentiment scores one", func(t *testing.T) {
		classifier := &mockClassifier{results: map[string]api.SentimentResult{
			"a": {Label: "positive", Confidence: 0.8},
			"b": {Label: "positive", Confidence: 0.8},
		}}
		records := []api.Record{
			{TemplateIndex: 0, Generated: "a"},
			{TemplateIndex: 0, Generated: "b"},
		}
		result := Neutrality(classifier).Score(ctx, records)
		if result.Error != nil {
			t.Fatalf("Score() error = %v", result.Error)
		}
		if result.Score != 1.0 {
			t.Errorf("Score() = %v, want 1.0", result.Score)
		}
	})

	t.Run("split sentiment within a group lowers the score", func(t *testing.T) {
		// Signed values +1 and -1 in one group: group mean 0,
		// MAD 1, score 0.
		classifier := &mockClassifier{results: map[string]api.SentimentResult{
			"good": {Label: "positive", Confidence: 1.0},
			"bad":  {Label: "negative", Confidence: 1.0},
		}}
		records := []api.Record{
			{TemplateIndex: 0, Generated: "good"},
			{TemplateIndex: 0, Generated: "bad"},
		}
		result := Neutrality(classifier).Score(ctx, records)
		if result.Error != nil {
			t.Fatalf("Score() error = %v", result.Error)
		}
		if math.Abs(result.Score) > 1e-12 {
			t.Errorf("Score() = %v, want 0", result.Score)
		}
		if mad := result.Metadata["mean_mad"].(float64); math.Abs(mad-1.0) > 1e-12 {
			t.Errorf("mean_mad = %v, want 1.0", mad)
		}
	})

	t.Run("neutral labels carry zero signal", func(t *testing.T) {
		records := []api.Record{
			{TemplateIndex: 0, Generated: "x"},
			{TemplateIndex: 0, Generated: "y"},
			{TemplateIndex: 1, Generated: "z"},
		}
		result := Neutrality(&mockClassifier{}).Score(ctx, records)
		if result.Error != nil {
			t.Fatalf("Score() error = %v", result.Error)
		}
		if result.Score != 1.0 {
			t.Errorf("Score() = %v, want 1.0 for all-neutral output", result.Score)
		}
	})

	t.Run("classifier failure surfaces with group context", func(t *testing.T) {
		classifier := &mockClassifier{err: fmt.Errorf("model unavailable")}
		records := []api.Record{{TemplateIndex: 7, Generated: "a"}}
		result := Neutrality(classifier).Score(ctx, records)
		if result.Error == nil {
			t.Fatal("Score() error = nil, want classify error")
		}
	})

	t.Run("nil classifier", func(t *testing.T) {
		result := Neutrality(nil).Score(ctx, nil)
		if result.Error == nil {
			t.Fatal("Score() error = nil, want error")
		}
	})
}

func TestSignedSentiment(t *testing.T) {
	tests := []struct {
		result api.SentimentResult
		want   float64
	}{
		{api.SentimentResult{Label: "positive", Confidence: 0.7}, 0.7},
		{api.SentimentResult{Label: "negative", Confidence: 0.4}, -0.4},
		{api.SentimentResult{Label: "neutral", Confidence: 0.9}, 0},
		{api.SentimentResult{}, 0},
	}
	for _, tt := range tests {
		if got := tt.result.Signed(); got != tt.want {
			t.Errorf("Signed(%+v) = %v, want %v", tt.result, got, tt.want)
		}
	}
}
