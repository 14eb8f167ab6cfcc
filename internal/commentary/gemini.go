package commentary

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"
)

const DefaultModel = "gemini-3-flash-preview"

// ErrNoAPIKey is reported when commentary is requested without credentials.
var ErrNoAPIKey = errors.New("gemini api key not configured")

// Gemini generates text with the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
}

type geminiConfig struct {
	model      string
	baseURL    string
	httpClient *http.Client
}

// GeminiOption configures a Gemini client.
type GeminiOption func(*geminiConfig)

// WithModel overrides DefaultModel.
func WithModel(model string) GeminiOption {
	return func(c *geminiConfig) {
		if model != "" {
			c.model = model
		}
	}
}

// WithBaseURL points the client at another endpoint (tests, proxies).
func WithBaseURL(baseURL string) GeminiOption {
	return func(c *geminiConfig) { c.baseURL = strings.TrimRight(baseURL, "/") }
}

// WithHTTPClient replaces the SDK's default HTTP client.
func WithHTTPClient(hc *http.Client) GeminiOption {
	return func(c *geminiConfig) { c.httpClient = hc }
}

// NewGemini creates a Gemini API client for apiKey.
func NewGemini(ctx context.Context, apiKey string, opts ...GeminiOption) (*Gemini, error) {
	if apiKey == "" {
		return nil, ErrNoAPIKey
	}

	cfg := geminiConfig{model: DefaultModel}
	for _, opt := range opts {
		opt(&cfg)
	}

	cc := &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.httpClient,
	}
	if cfg.baseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.baseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{client: client, model: cfg.model}, nil
}

// Generate sends prompt and returns the text of the first candidate. An
// empty string with a nil error means the model said nothing.
func (g *Gemini) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}
	return resp.Text(), nil
}
