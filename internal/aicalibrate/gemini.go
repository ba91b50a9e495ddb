package aicalibrate

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	genai "google.golang.org/genai"
)

// Gemini defaults
const (
	DefaultModel     = "gemini-2.5-flash"
	DefaultAPIKeyEnv = "GEMINI_API_KEY"
)

// ErrEmptyResponse is returned when the model produced no text
var ErrEmptyResponse = errors.New("empty response from model")

// GeminiConfig configures the Gemini generator
type GeminiConfig struct {
	Model string

	// APIKey takes precedence over APIKeyEnv
	APIKey    string
	APIKeyEnv string
}

// GeminiGenerator asks a Gemini model for a JSON answer
type GeminiGenerator struct {
	cli   *genai.Client
	model string
}

// NewGeminiGenerator creates a generator. A .env file in the working
// directory is loaded first when present.
func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	_ = godotenv.Load()

	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.APIKeyEnv == "" {
		cfg.APIKeyEnv = DefaultAPIKeyEnv
	}
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		apiKey = strings.TrimSpace(os.Getenv(cfg.APIKeyEnv))
	}
	if apiKey == "" {
		return nil, fmt.Errorf("no API key: set %s or ai.api_key", cfg.APIKeyEnv)
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}
	return &GeminiGenerator{cli: cli, model: cfg.Model}, nil
}

// Name identifies the backing model
func (g *GeminiGenerator) Name() string { return "gemini:" + g.model }

// Generate sends prompt and returns the text of the first candidate
func (g *GeminiGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", err
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Candidates[0].Content.Parts[0].Text, nil
}
