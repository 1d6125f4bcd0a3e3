package gateway

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/docbot"
)

var _ docbot.Generator = (*Generator)(nil)

// Generator guards a provider generator with validation and retries.
type Generator struct {
	generator docbot.Generator
	opts      options
}

// NewGenerator wraps generator. By default the prompt length is unchecked.
func NewGenerator(generator docbot.Generator, opts ...Option) *Generator {
	return &Generator{
		generator: generator,
		opts:      newOptions(0, opts),
	}
}

// Generate returns the provider's completion for req. Zero token limit and
// temperature are replaced by defaults.
//
// Returns EINVALID for an empty or oversized prompt and EGENERATION once
// retries are exhausted. A blank completion counts as a failed attempt.
func (g *Generator) Generate(ctx context.Context, req *docbot.GenerateRequest) (*docbot.GenerateResponse, error) {
	if req == nil || strings.TrimSpace(req.Prompt) == "" {
		return nil, docbot.Errorf(docbot.EINVALID, "prompt required")
	}
	if limit := g.opts.maxInputLength; limit > 0 && utf8.RuneCountInString(req.Prompt) > limit {
		return nil, docbot.Errorf(docbot.EINVALID, "prompt exceeds %d characters", limit)
	}

	r := *req
	if r.MaxOutputTokens <= 0 {
		r.MaxOutputTokens = docbot.DefaultMaxOutputTokens
	}
	if r.Temperature == nil {
		r.Temperature = docbot.Float32(docbot.DefaultTemperature)
	}

	var resp *docbot.GenerateResponse
	attempts, err := retry(ctx, g.opts, "generate", func(ctx context.Context) error {
		out, err := g.generator.Generate(ctx, &r)
		if err != nil {
			return err
		}
		if out == nil || strings.TrimSpace(out.Text) == "" {
			return docbot.Errorf(docbot.EGENERATION, "provider returned an empty completion")
		}
		resp = out
		return nil
	})
	if err != nil {
		if ctx.Err() != nil || docbot.ErrorCode(err) == docbot.EINVALID {
			return nil, err
		}
		return nil, docbot.Errorf(docbot.EGENERATION, "generation unavailable after %d attempts: %v", attempts, err)
	}
	return resp, nil
}
