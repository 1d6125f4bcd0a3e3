// Package openai implements docbot's embedding and generation capabilities
// against OpenAI-compatible APIs.
package openai

import (
	openai "github.com/sashabaranov/go-openai"
)

// Default models.
const (
	DefaultGenerationModel = "gpt-4o-mini"
	DefaultEmbeddingModel  = "text-embedding-3-small"
)

// NewClient creates a client for apiKey. An empty baseURL uses the OpenAI
// API; otherwise requests go to baseURL, e.g. a local server's "/v1".
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

// ModelDimension returns the native dimension of known embedding models,
// or 0 when unknown.
func ModelDimension(model string) int {
	switch model {
	case "text-embedding-3-small", "text-embedding-ada-002":
		return 1536
	case "text-embedding-3-large":
		return 3072
	default:
		return 0
	}
}
