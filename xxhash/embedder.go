// Package xxhash implements an offline docbot.Embedder using feature
// hashing of word tokens.
package xxhash

import (
	"context"
	"strings"
	"unicode"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/docbot"
)

// DefaultDimension is the default number of hash buckets.
const DefaultDimension = 1024

var _ docbot.Embedder = (*Embedder)(nil)

// Embedder maps each lowercase word token to a bucket by its xxhash and
// counts occurrences. Vectors are deterministic and need no network, which
// makes the embedder suitable for tests and offline use.
type Embedder struct {
	dim int
}

// NewEmbedder creates an Embedder with dim buckets.
// Returns EINVALID if dim is not positive.
func NewEmbedder(dim int) (*Embedder, error) {
	if dim <= 0 {
		return nil, docbot.Errorf(docbot.EINVALID, "dimension must be positive, got %d", dim)
	}
	return &Embedder{dim: dim}, nil
}

// Dimension returns the number of buckets.
func (e *Embedder) Dimension() int {
	return e.dim
}

// Embed returns one term-frequency vector per text.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, text := range texts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out[i] = e.vector(text)
	}
	return out, nil
}

func (e *Embedder) vector(text string) []float32 {
	v := make([]float32, e.dim)
	for _, tok := range Tokenize(text) {
		v[xxhash.Sum64String(tok)%uint64(e.dim)]++
	}
	return v
}

// Tokenize splits text into lowercase runs of letters and digits.
func Tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
