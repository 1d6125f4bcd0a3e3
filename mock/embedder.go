package mock

import (
	"context"

	"github.com/fwojciec/docbot"
)

var _ docbot.Embedder = (*Embedder)(nil)

// Embedder is a mock implementation of docbot.Embedder.
type Embedder struct {
	EmbedFn     func(ctx context.Context, texts []string) ([][]float32, error)
	DimensionFn func() int
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return e.EmbedFn(ctx, texts)
}

// Dimension returns 0 when DimensionFn is not set.
func (e *Embedder) Dimension() int {
	if e.DimensionFn == nil {
		return 0
	}
	return e.DimensionFn()
}
