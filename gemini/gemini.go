// Package gemini implements docbot's embedding and generation capabilities
// with Google Gemini.
package gemini

import (
	"context"

	"google.golang.org/genai"
)

// Default models.
const (
	DefaultGenerationModel = "gemini-2.0-flash"
	DefaultEmbeddingModel  = "text-embedding-004"
	DefaultDimension       = 768
)

// NewClient creates a Gemini API client.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}
