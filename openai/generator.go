package openai

import (
	"context"
	"math"

	"github.com/fwojciec/docbot"
	openai "github.com/sashabaranov/go-openai"
)

var _ docbot.Generator = (*Generator)(nil)

// Generator implements docbot.Generator with chat completions.
type Generator struct {
	client *openai.Client
	model  string
}

// NewGenerator creates a Generator for model.
func NewGenerator(client *openai.Client, model string) *Generator {
	if model == "" {
		model = DefaultGenerationModel
	}
	return &Generator{client: client, model: model}
}

// Generate sends the prompt as a single user message.
func (g *Generator) Generate(ctx context.Context, req *docbot.GenerateRequest) (*docbot.GenerateResponse, error) {
	if req == nil || req.Prompt == "" {
		return nil, docbot.Errorf(docbot.EINVALID, "prompt required")
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
		MaxTokens:   req.MaxOutputTokens,
		Temperature: chatTemperature(req.Temperature),
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, docbot.Errorf(docbot.EGENERATION, "openai returned no choices")
	}

	return &docbot.GenerateResponse{Text: resp.Choices[0].Message.Content}, nil
}

// chatTemperature maps the request temperature onto go-openai, which drops a
// zero temperature from the request body. The smallest positive float keeps
// zero on the wire in effect.
func chatTemperature(t *float32) float32 {
	if t == nil {
		return 0
	}
	if *t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return *t
}
