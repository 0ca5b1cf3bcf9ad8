package toxicity

import (
	"context"
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/datar-psa/genfair/api"
	"github.com/datar-psa/genfair/dataset"
)

// mockProvider returns a canned TOXICITY score per text and can fail for
// selected texts.
type mockProvider struct {
	toxicity map[string]float64
	failFor  map[string]bool

	mu       sync.Mutex
	inFlight int
	maxSeen  int
	calls    atomic.Int64
}

func (m *mockProvider) Analyze(ctx context.Context, text string) (api.AttributeScores, error) {
	m.calls.Add(1)
	m.mu.Lock()
	m.inFlight++
	if m.inFlight > m.maxSeen {
		m.maxSeen = m.inFlight
	}
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		m.inFlight--
		m.mu.Unlock()
	}()

	if m.failFor[text] {
		return nil, errors.New("max retries exceeded")
	}
	scores := api.AttributeScores{api.AttributeToxicity: m.toxicity[text]}
	for _, name := range api.ToxicityAttributes {
		if _, ok := scores[name]; !ok {
			scores[name] = 0.01
		}
	}
	return scores, nil
}

func TestNonToxicity(t *testing.T) {
	ctx := context.Background()

	t.Run("uniform toxicity scores one", func(t *testing.T) {
		provider := &mockProvider{toxicity: map[string]float64{"a": 0.2, "b": 0.2}}
		records := []api.Record{
			{TemplateIndex: 0, Generated: "a"},
			{TemplateIndex: 0, Generated: "b"},
		}
		result := NonToxicity(provider, NonToxicityOptions{}).Score(ctx, records)
		if result.Error != nil {
			t.Fatalf("Score() error = %v", result.Error)
		}
		if result.Score != 1.0 {
			t.Errorf("Score() = %v, want 1.0", result.Score)
		}
		means, ok := result.Metadata["attribute_means"].(map[string]float64)
		if !ok {
			t.Fatalf("attribute_means missing from metadata")
		}
		if got := means[api.AttributeToxicity]; math.Abs(got-0.2) > 1e-12 {
			t.Errorf("attribute_means[TOXICITY] = %v, want 0.2", got)
		}
		if got := means["INSULT"]; math.Abs(got-0.01) > 1e-12 {
			t.Errorf("attribute_means[INSULT] = %v, want 0.01", got)
		}
	})

	t.Run("diverging toxicity is normalized by half", func(t *testing.T) {
		// Group values 0.1 and 0.3: MAD 0.1, normalized 0.2, score 0.8.
		provider := &mockProvider{toxicity: map[string]float64{"a": 0.1, "b": 0.3}}
		records := []api.Record{
			{TemplateIndex: 0, Generated: "a"},
			{TemplateIndex: 0, Generated: "b"},
		}
		result := NonToxicity(provider, NonToxicityOptions{}).Score(ctx, records)
		if result.Error != nil {
			t.Fatalf("Score() error = %v", result.Error)
		}
		if math.Abs(result.Score-0.8) > 1e-12 {
			t.Errorf("Score() = %v, want 0.8", result.Score)
		}
	})

	t.Run("failed fetches are dropped not zeroed", func(t *testing.T) {
		provider := &mockProvider{
			toxicity: map[string]float64{"a": 0.2, "b": 0.2},
			failFor:  map[string]bool{"c": true},
		}
		records := []api.Record{
			{TemplateIndex: 0, Generated: "a"},
			{TemplateIndex: 0, Generated: "b"},
			{TemplateIndex: 0, Generated: "c"},
		}
		result := NonToxicity(provider, NonToxicityOptions{}).Score(ctx, records)
		if result.Error != nil {
			t.Fatalf("Score() error = %v", result.Error)
		}
		// If c were zero-scored the group MAD would be nonzero.
		if result.Score != 1.0 {
			t.Errorf("Score() = %v, want 1.0 with the failed record dropped", result.Score)
		}
		if got := result.Metadata["records_dropped"].(int); got != 1 {
			t.Errorf("records_dropped = %d, want 1", got)
		}
	})

	t.Run("all fetches failing is an error", func(t *testing.T) {
		provider := &mockProvider{failFor: map[string]bool{"a": true}}
		records := []api.Record{{TemplateIndex: 0, Generated: "a"}}
		result := NonToxicity(provider, NonToxicityOptions{}).Score(ctx, records)
		if result.Error == nil {
			t.Fatal("Score() error = nil, want error when every record drops")
		}
	})

	t.Run("concurrency is bounded", func(t *testing.T) {
		provider := &mockProvider{toxicity: map[string]float64{}}
		var records []api.Record
		for i := 0; i < 40; i++ {
			records = append(records, api.Record{TemplateIndex: i % 5, Generated: "text"})
		}
		result := NonToxicity(provider, NonToxicityOptions{Concurrency: 3}).Score(ctx, records)
		if result.Error != nil {
			t.Fatalf("Score() error = %v", result.Error)
		}
		provider.mu.Lock()
		maxSeen := provider.maxSeen
		provider.mu.Unlock()
		if maxSeen > 3 {
			t.Errorf("max in-flight requests = %d, want <= 3", maxSeen)
		}
	})

	t.Run("cancellation stops issuing and flags incomplete", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		provider := &mockProvider{toxicity: map[string]float64{}}
		records := []api.Record{
			{TemplateIndex: 0, Generated: "a"},
			{TemplateIndex: 0, Generated: "b"},
		}
		result := NonToxicity(provider, NonToxicityOptions{}).Score(canceled, records)
		if provider.calls.Load() != 0 {
			t.Errorf("provider called %d times after cancellation, want 0", provider.calls.Load())
		}
		if result.Error == nil {
			t.Fatal("Score() error = nil, want error (no record scored)")
		}
	})

	t.Run("refusals filtered first", func(t *testing.T) {
		records := []api.Record{{TemplateIndex: 0, Generated: "I'm sorry."}}
		result := NonToxicity(&mockProvider{}, NonToxicityOptions{}).Score(ctx, records)
		if !errors.Is(result.Error, dataset.ErrEmptyTable) {
			t.Errorf("Score() error = %v, want ErrEmptyTable", result.Error)
		}
	})

	t.Run("nil provider", func(t *testing.T) {
		result := NonToxicity(nil, NonToxicityOptions{}).Score(ctx, nil)
		if result.Error == nil {
			t.Fatal("Score() error = nil, want error")
		}
	})
}
