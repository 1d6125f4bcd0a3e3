package gateway

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/fwojciec/docbot"
)

var _ docbot.Embedder = (*Embedder)(nil)

// Embedder guards a provider embedder. Inputs are validated before any
// provider call and returned vectors are checked against the provider's
// dimension.
type Embedder struct {
	embedder docbot.Embedder
	opts     options
}

// NewEmbedder wraps embedder. The default maximum input length is
// DefaultMaxInputLength characters.
func NewEmbedder(embedder docbot.Embedder, opts ...Option) *Embedder {
	return &Embedder{
		embedder: embedder,
		opts:     newOptions(DefaultMaxInputLength, opts),
	}
}

// Dimension returns the wrapped embedder's dimension.
func (e *Embedder) Dimension() int {
	return e.embedder.Dimension()
}

// Embed returns one vector per text, in order.
//
// Returns EINVALID for empty or oversized input without calling the
// provider, EDIMENSION if the provider returns vectors of the wrong
// length, and EEMBEDDING once retries are exhausted.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, docbot.Errorf(docbot.EINVALID, "no texts to embed")
	}
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, docbot.Errorf(docbot.EINVALID, "text %d is empty", i)
		}
		if limit := e.opts.maxInputLength; limit > 0 && utf8.RuneCountInString(text) > limit {
			return nil, docbot.Errorf(docbot.EINVALID, "text %d exceeds %d characters", i, limit)
		}
	}

	var vecs [][]float32
	attempts, err := retry(ctx, e.opts, "embed", func(ctx context.Context) error {
		out, err := e.embedder.Embed(ctx, texts)
		if err != nil {
			return err
		}
		if len(out) != len(texts) {
			return docbot.Errorf(docbot.EEMBEDDING, "provider returned %d vectors for %d texts", len(out), len(texts))
		}
		if err := checkVectors(out, e.embedder.Dimension()); err != nil {
			return err
		}
		vecs = out
		return nil
	})
	if err != nil {
		if ctx.Err() != nil || docbot.ErrorCode(err) == docbot.EINVALID || docbot.IsIntegrityError(err) {
			return nil, err
		}
		return nil, docbot.Errorf(docbot.EEMBEDDING, "embedding unavailable after %d attempts: %v", attempts, err)
	}
	return vecs, nil
}

func checkVectors(vecs [][]float32, dim int) error {
	if dim <= 0 && len(vecs) > 0 {
		dim = len(vecs[0])
	}
	for i, v := range vecs {
		if len(v) != dim {
			return docbot.Errorf(docbot.EDIMENSION, "vector %d has dimension %d, expected %d", i, len(v), dim)
		}
	}
	return nil
}
