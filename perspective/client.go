// Package perspective is a client for the Perspective comment-analysis API
// with exponential backoff against its rate limit.
package perspective

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"

	"github.com/datar-psa/genfair/api"
)

// DefaultBaseURL is the production comment-analysis endpoint.
const DefaultBaseURL = "https://commentanalyzer.googleapis.com/v1alpha1/comments:analyze"

// DefaultMaxAttempts bounds the retry loop; the worst-case wait per text is
// the sum of 2^i seconds for i in 0..DefaultMaxAttempts-2.
const DefaultMaxAttempts = 7

// ErrExhaustedRetries is returned when every attempt failed. Callers drop
// the affected record rather than treating it as zero toxicity.
var ErrExhaustedRetries = errors.New("max retries exceeded")

// ClientOptions configures Client creation
type ClientOptions struct {
	// HTTPClient overrides http.DefaultClient (useful for recorded tests)
	HTTPClient *http.Client
	// BaseURL overrides DefaultBaseURL
	BaseURL string
	// MaxAttempts overrides DefaultMaxAttempts
	MaxAttempts int
}

// Client calls the comment-analysis API. Safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	apiKey      string
	maxAttempts int

	// test seams; both non-nil after NewClient
	sleep  func(ctx context.Context, d time.Duration) error
	jitter func() time.Duration
}

// NewClient creates a client authenticated by the given API key.
func NewClient(apiKey string, opts ClientOptions) *Client {
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	return &Client{
		httpClient:  opts.HTTPClient,
		baseURL:     opts.BaseURL,
		apiKey:      apiKey,
		maxAttempts: opts.MaxAttempts,
		sleep:       sleepContext,
		jitter:      func() time.Duration { return time.Duration(rand.Intn(1000)) * time.Millisecond },
	}
}

type analyzeRequest struct {
	Comment             comment              `json:"comment"`
	Languages           []string             `json:"languages"`
	RequestedAttributes map[string]emptyAttr `json:"requestedAttributes"`
}

type comment struct {
	Text string `json:"text"`
}

type emptyAttr struct{}

type analyzeResponse struct {
	AttributeScores map[string]struct {
		SummaryScore struct {
			Value float64 `json:"value"`
		} `json:"summaryScore"`
	} `json:"attributeScores"`
}

// Analyze fetches the requested attribute scores for one text. Each attempt
// is one step of a bounded loop: success returns, HTTP 429 waits
// 2^attempt seconds plus up to a second of jitter, any other failure waits
// 2^attempt seconds flat. A spent budget returns ErrExhaustedRetries; a
// canceled context returns its error without further attempts.
func (c *Client) Analyze(ctx context.Context, text string) (api.AttributeScores, error) {
	attrs := make(map[string]emptyAttr, len(api.ToxicityAttributes))
	for _, name := range api.ToxicityAttributes {
		attrs[name] = emptyAttr{}
	}
	body, err := json.Marshal(analyzeRequest{
		Comment:             comment{Text: text},
		Languages:           []string{"en"},
		RequestedAttributes: attrs,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal analyze request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		scores, retryable, err := c.attempt(ctx, body)
		if err == nil {
			return scores, nil
		}
		if !retryable {
			return nil, err
		}
		lastErr = err

		if attempt == c.maxAttempts-1 {
			break
		}
		wait := time.Duration(1<<uint(attempt)) * time.Second
		if isRateLimited(err) {
			wait += c.jitter()
		}
		if err := c.sleep(ctx, wait); err != nil {
			return nil, err
		}
	}
	return nil, fmt.Errorf("%w after %d attempts: %v", ErrExhaustedRetries, c.maxAttempts, lastErr)
}

// attempt runs a single request. retryable is false only for local failures
// that backoff cannot fix.
func (c *Client) attempt(ctx context.Context, body []byte) (api.AttributeScores, bool, error) {
	u := c.baseURL + "?" + url.Values{"key": {c.apiKey}}.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, false, fmt.Errorf("build analyze request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, true, fmt.Errorf("analyze request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		io.Copy(io.Discard, resp.Body)
		return nil, true, errRateLimited
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, true, fmt.Errorf("analyze returned %d: %s", resp.StatusCode, snippet)
	}

	var parsed analyzeResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, true, fmt.Errorf("decode analyze response: %w", err)
	}

	scores := make(api.AttributeScores, len(api.ToxicityAttributes))
	for _, name := range api.ToxicityAttributes {
		attr, ok := parsed.AttributeScores[name]
		if !ok {
			return nil, true, fmt.Errorf("analyze response missing attribute %s", name)
		}
		scores[name] = attr.SummaryScore.Value
	}
	return scores, false, nil
}

var errRateLimited = errors.New("rate limit exceeded")

func isRateLimited(err error) bool { return errors.Is(err, errRateLimited) }

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Verify that Client implements ToxicityProvider
var _ api.ToxicityProvider = (*Client)(nil)
