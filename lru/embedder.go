// Package lru caches embeddings in memory with an expiring LRU.
package lru

import (
	"context"
	"time"

	"github.com/fwojciec/docbot"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// Defaults for the query embedding cache.
const (
	DefaultSize = 1024
	DefaultTTL  = time.Hour
)

var _ docbot.Embedder = (*Embedder)(nil)

// Embedder serves repeated texts from cache and forwards only misses to
// the wrapped embedder, preserving input order.
type Embedder struct {
	next  docbot.Embedder
	cache *expirable.LRU[string, []float32]
}

// NewEmbedder wraps next with a cache of size entries expiring after ttl.
func NewEmbedder(next docbot.Embedder, size int, ttl time.Duration) *Embedder {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Embedder{
		next:  next,
		cache: expirable.NewLRU[string, []float32](size, nil, ttl),
	}
}

// Dimension returns the wrapped embedder's dimension.
func (e *Embedder) Dimension() int {
	return e.next.Dimension()
}

// Len returns the number of cached vectors.
func (e *Embedder) Len() int {
	return e.cache.Len()
}

// Embed returns cached vectors where possible. Failed calls are not cached.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	var missing []string
	var missingIdx []int
	for i, text := range texts {
		if v, ok := e.cache.Get(text); ok {
			out[i] = clone(v)
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}
	if len(missing) == 0 {
		return out, nil
	}

	vecs, err := e.next.Embed(ctx, missing)
	if err != nil {
		return nil, err
	}
	if len(vecs) != len(missing) {
		return nil, docbot.Errorf(docbot.EEMBEDDING, "embedder returned %d vectors for %d texts", len(vecs), len(missing))
	}
	for j, v := range vecs {
		e.cache.Add(missing[j], clone(v))
		out[missingIdx[j]] = v
	}
	return out, nil
}

func clone(v []float32) []float32 {
	out := make([]float32, len(v))
	copy(out, v)
	return out
}
