package gemini

import (
	"context"

	"github.com/fwojciec/docbot"
	"google.golang.org/genai"
)

// Ensure Generator implements docbot.Generator at compile time.
var _ docbot.Generator = (*Generator)(nil)

// Generator implements docbot.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string
}

// NewGenerator creates a new Generator.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultGenerationModel
	}
	return &Generator{client: client, model: model}
}

// Model returns the generation model ID.
func (g *Generator) Model() string {
	return g.model
}

// Generate sends the prompt as a single user turn.
func (g *Generator) Generate(ctx context.Context, req *docbot.GenerateRequest) (*docbot.GenerateResponse, error) {
	if req == nil || req.Prompt == "" {
		return nil, docbot.Errorf(docbot.EINVALID, "prompt required")
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{{
			Role:  "user",
			Parts: []*genai.Part{{Text: req.Prompt}},
		}},
		BuildConfig(req),
	)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, docbot.Errorf(docbot.EGENERATION, "gemini returned nil result")
	}

	return &docbot.GenerateResponse{Text: result.Text()}, nil
}

// BuildConfig returns the GenerateContentConfig for a request.
func BuildConfig(req *docbot.GenerateRequest) *genai.GenerateContentConfig {
	cfg := &genai.GenerateContentConfig{}
	if req.Temperature != nil {
		temp := *req.Temperature
		cfg.Temperature = &temp
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = int32(req.MaxOutputTokens)
	}
	return cfg
}
