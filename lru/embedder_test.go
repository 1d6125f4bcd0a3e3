package lru_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fwojciec/docbot/lru"
	"github.com/fwojciec/docbot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Embed(t *testing.T) {
	t.Parallel()

	t.Run("forwards only misses", func(t *testing.T) {
		t.Parallel()

		var calls [][]string
		next := &mock.Embedder{
			EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
				calls = append(calls, texts)
				out := make([][]float32, len(texts))
				for i, text := range texts {
					out[i] = []float32{float32(len(text))}
				}
				return out, nil
			},
			DimensionFn: func() int { return 1 },
		}
		e := lru.NewEmbedder(next, 10, time.Minute)

		first, err := e.Embed(context.Background(), []string{"a", "bb"})
		require.NoError(t, err)
		second, err := e.Embed(context.Background(), []string{"ccc", "a"})
		require.NoError(t, err)

		assert.Equal(t, [][]float32{{1}, {2}}, first)
		assert.Equal(t, [][]float32{{3}, {1}}, second)
		assert.Equal(t, [][]string{{"a", "bb"}, {"ccc"}}, calls)
		assert.Equal(t, 3, e.Len())
		assert.Equal(t, 1, e.Dimension())
	})

	t.Run("cached vectors are copies", func(t *testing.T) {
		t.Parallel()

		next := &mock.Embedder{
			EmbedFn: func(context.Context, []string) ([][]float32, error) {
				return [][]float32{{1, 2}}, nil
			},
		}
		e := lru.NewEmbedder(next, 10, time.Minute)

		first, err := e.Embed(context.Background(), []string{"x"})
		require.NoError(t, err)
		first[0][0] = 99
		second, err := e.Embed(context.Background(), []string{"x"})
		require.NoError(t, err)

		assert.Equal(t, []float32{1, 2}, second[0])
	})

	t.Run("does not cache failures", func(t *testing.T) {
		t.Parallel()

		fail := true
		next := &mock.Embedder{
			EmbedFn: func(context.Context, []string) ([][]float32, error) {
				if fail {
					return nil, errors.New("unavailable")
				}
				return [][]float32{{1}}, nil
			},
		}
		e := lru.NewEmbedder(next, 10, time.Minute)

		_, err := e.Embed(context.Background(), []string{"x"})
		require.Error(t, err)
		fail = false
		vecs, err := e.Embed(context.Background(), []string{"x"})

		require.NoError(t, err)
		assert.Equal(t, [][]float32{{1}}, vecs)
	})
}
