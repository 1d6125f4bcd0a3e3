package docbot

import "context"

// Default generation parameters.
const (
	DefaultMaxOutputTokens = 2048
	DefaultTemperature     = 0.4
)

// GenerateRequest is a single text-generation call.
type GenerateRequest struct {
	Prompt          string `json:"prompt"`
	MaxOutputTokens int    `json:"maxOutputTokens,omitempty"`
	// Temperature is the sampling temperature. Nil means
	// DefaultTemperature; zero requests deterministic output.
	Temperature *float32 `json:"temperature,omitempty"`
}

// Float32 returns a pointer to v.
func Float32(v float32) *float32 { return &v }

// GenerateResponse holds generated text.
type GenerateResponse struct {
	Text string `json:"text"`
}

// Generator produces text from a prompt.
type Generator interface {
	Generate(ctx context.Context, req *GenerateRequest) (*GenerateResponse, error)
}
