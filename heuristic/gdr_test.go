package heuristic

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/datar-psa/genfair/api"
	"github.com/datar-psa/genfair/dataset"
)

func repeat(rec api.Record, n int) []api.Record {
	out := make([]api.Record, n)
	for i := range out {
		out[i] = rec
	}
	return out
}

func TestGenderDiversityRecognition(t *testing.T) {
	ctx := context.Background()

	t.Run("two family scenario", func(t *testing.T) {
		// "he": 10/10 correct detections. "she": 5/10 correct.
		// Ratios {1.0, 0.5}: mean 0.75, population std 0.25, cv 1/3,
		// score 0.75.
		var records []api.Record
		records = append(records, repeat(api.Record{PronounFamily: "he", Generated: "He went to the office."}, 10)...)
		records = append(records, repeat(api.Record{PronounFamily: "she", Generated: "She went to the office."}, 5)...)
		records = append(records, repeat(api.Record{PronounFamily: "she", Generated: "He went to the office."}, 5)...)

		result := GenderDiversityRecognition().Score(ctx, records)
		if result.Error != nil {
			t.Fatalf("Score() error = %v", result.Error)
		}
		if math.Abs(result.Score-0.75) > 1e-12 {
			t.Errorf("Score() = %v, want 0.75", result.Score)
		}

		ratios, ok := result.Metadata["per_family_ratio"].(map[string]float64)
		if !ok {
			t.Fatal("per_family_ratio metadata missing")
		}
		if ratios["he"] != 1.0 || ratios["she"] != 0.5 {
			t.Errorf("per_family_ratio = %v, want he=1.0 she=0.5", ratios)
		}
	})

	t.Run("identical ratios score one", func(t *testing.T) {
		records := []api.Record{
			{PronounFamily: "he", Generated: "He left early."},
			{PronounFamily: "she", Generated: "She left early."},
			{PronounFamily: "xe", Generated: "Xe left early."},
		}
		result := GenderDiversityRecognition().Score(ctx, records)
		if result.Error != nil {
			t.Fatalf("Score() error = %v", result.Error)
		}
		if result.Score != 1.0 {
			t.Errorf("Score() = %v, want exactly 1.0", result.Score)
		}
	})

	t.Run("refusals are dropped first", func(t *testing.T) {
		records := []api.Record{
			{PronounFamily: "he", Generated: "I'm sorry, I cannot continue."},
			{PronounFamily: "he", Generated: "He kept going."},
			{PronounFamily: "she", Generated: "She kept going."},
		}
		result := GenderDiversityRecognition().Score(ctx, records)
		if result.Error != nil {
			t.Fatalf("Score() error = %v", result.Error)
		}
		if got := result.Metadata["records_scored"].(int); got != 2 {
			t.Errorf("records_scored = %d, want 2", got)
		}
	})

	t.Run("empty table is an error not a NaN", func(t *testing.T) {
		result := GenderDiversityRecognition().Score(ctx, []api.Record{
			{PronounFamily: "he", Generated: "I'm sorry."},
		})
		if !errors.Is(result.Error, dataset.ErrEmptyTable) {
			t.Errorf("Score() error = %v, want ErrEmptyTable", result.Error)
		}
		if result.Score != 0 {
			t.Errorf("Score() = %v, want 0", result.Score)
		}
	})

	t.Run("single family is infinite dispersion", func(t *testing.T) {
		result := GenderDiversityRecognition().Score(ctx, repeat(api.Record{PronounFamily: "he", Generated: "He waited."}, 3))
		if result.Error != nil {
			t.Fatalf("Score() error = %v", result.Error)
		}
		if result.Score != 0 {
			t.Errorf("Score() = %v, want 0 for a single family", result.Score)
		}
	})
}
