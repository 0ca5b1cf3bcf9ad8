package testutils

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/areknoster/hypert"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/genai"

	"github.com/datar-psa/genfair/gemini"
	"github.com/datar-psa/genfair/perspective"
)

// ShouldUpdate returns true if tests should update cached HTTP responses
// Set UPDATE_TESTS=true environment variable to update cached responses
func ShouldUpdate() bool {
	return os.Getenv("UPDATE_TESTS") == "true"
}

// HypertClientConfig configures hypert client creation
type HypertClientConfig struct {
	TestDataDir string
	SubDir      string // Optional subdirectory for organizing test data
}

// NewHypertClient creates a new hypert client for caching HTTP requests.
// Integration tests that call external scoring APIs replay through it.
func NewHypertClient(t *testing.T, config HypertClientConfig) *http.Client {
	testDataDir := config.TestDataDir
	if config.SubDir != "" {
		testDataDir = filepath.Join(testDataDir, config.SubDir)
	}

	namingScheme, err := hypert.NewContentHashNamingScheme(testDataDir)
	if err != nil {
		t.Fatalf("failed to create naming scheme: %v", err)
	}

	return hypert.TestClient(t, ShouldUpdate(),
		hypert.WithNamingScheme(namingScheme),
		hypert.WithRequestValidator(hypert.ComposedRequestValidator(
			hypert.PathValidator(),
			hypert.QueryParamsValidator(),
			hypert.MethodValidator(),
		)),
	)
}

// quotaProjectTransport wraps an http.RoundTripper to add quota project header
type quotaProjectTransport struct {
	base      http.RoundTripper
	projectID string
}

func (t *quotaProjectTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.Header.Set("X-Goog-User-Project", t.projectID)
	return t.base.RoundTrip(req)
}

// NewAuthenticatedHypertClient creates a hypert client with OAuth2
// authentication and a quota project, for Google Cloud APIs that need both.
// Authentication only happens in record mode; replay needs no credentials.
func NewAuthenticatedHypertClient(t *testing.T, config HypertClientConfig, projectID string) *http.Client {
	hypertClient := NewHypertClient(t, config)
	if !ShouldUpdate() {
		return hypertClient
	}

	ctx := context.Background()
	creds, err := google.FindDefaultCredentials(ctx)
	if err != nil {
		t.Fatalf("failed to get default credentials: %v", err)
	}
	oauth2Client := oauth2.NewClient(context.WithValue(ctx, oauth2.HTTPClient, hypertClient), creds.TokenSource)

	return &http.Client{
		Transport: &quotaProjectTransport{
			base:      oauth2Client.Transport,
			projectID: projectID,
		},
		Timeout: oauth2Client.Timeout,
	}
}

// GeminiTestConfig configures Gemini client creation for tests
type GeminiTestConfig struct {
	Project  string
	Location string
	SubDir   string // Subdirectory for hypert test data
}

// DefaultGeminiTestConfig returns a default configuration for Gemini testing
func DefaultGeminiTestConfig(subDir string) GeminiTestConfig {
	return GeminiTestConfig{
		Project:  os.Getenv("GOOGLE_PROJECT_ID"),
		Location: os.Getenv("GOOGLE_REGION"),
		SubDir:   subDir,
	}
}

// NewGeminiClient creates a Gemini client for testing with hypert caching
func NewGeminiClient(t *testing.T, config GeminiTestConfig) *genai.Client {
	hypertClient := NewHypertClient(t, HypertClientConfig{
		TestDataDir: "testdata",
		SubDir:      config.SubDir,
	})

	genaiClient, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		Backend:    genai.BackendVertexAI,
		Project:    config.Project,
		Location:   config.Location,
		HTTPClient: hypertClient,
	})
	if err != nil {
		t.Fatalf("failed to create genai client: %v", err)
	}
	return genaiClient
}

// NewGeminiEmbedder creates a Gemini embedder for testing
func NewGeminiEmbedder(t *testing.T, config GeminiTestConfig, modelName string) *gemini.Embedder {
	return gemini.NewEmbedder(NewGeminiClient(t, config), modelName)
}

// NewPerspectiveClient creates a Perspective client for testing with hypert
// caching. The real API key is only needed when recording.
func NewPerspectiveClient(t *testing.T, subDir string) *perspective.Client {
	apiKey := os.Getenv("PERSPECTIVE_API_KEY")
	if apiKey == "" {
		if ShouldUpdate() {
			t.Fatal("PERSPECTIVE_API_KEY is required to record Perspective responses")
		}
		apiKey = "replay-key"
	}

	// The API key travels in the query string, so query params are not
	// validated here; a recorded exchange must replay under a dummy key.
	namingScheme, err := hypert.NewContentHashNamingScheme(filepath.Join("testdata", subDir))
	if err != nil {
		t.Fatalf("failed to create naming scheme: %v", err)
	}
	httpClient := hypert.TestClient(t, ShouldUpdate(),
		hypert.WithNamingScheme(namingScheme),
		hypert.WithRequestValidator(hypert.ComposedRequestValidator(
			hypert.PathValidator(),
			hypert.MethodValidator(),
		)),
	)

	return perspective.NewClient(apiKey, perspective.ClientOptions{HTTPClient: httpClient})
}
