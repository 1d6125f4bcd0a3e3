package mock

import (
	"context"

	"github.com/fwojciec/docbot"
)

var _ docbot.Generator = (*Generator)(nil)

// Generator is a mock implementation of docbot.Generator.
type Generator struct {
	GenerateFn func(ctx context.Context, req *docbot.GenerateRequest) (*docbot.GenerateResponse, error)
}

func (g *Generator) Generate(ctx context.Context, req *docbot.GenerateRequest) (*docbot.GenerateResponse, error) {
	return g.GenerateFn(ctx, req)
}
