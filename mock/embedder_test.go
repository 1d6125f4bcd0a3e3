package mock_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docbot/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder(t *testing.T) {
	t.Parallel()

	t.Run("delegates to EmbedFn", func(t *testing.T) {
		t.Parallel()

		var got []string
		e := &mock.Embedder{
			EmbedFn: func(_ context.Context, texts []string) ([][]float32, error) {
				got = texts
				return [][]float32{{1, 2}}, nil
			},
		}

		vecs, err := e.Embed(context.Background(), []string{"hello"})

		require.NoError(t, err)
		assert.Equal(t, []string{"hello"}, got)
		assert.Equal(t, [][]float32{{1, 2}}, vecs)
	})

	t.Run("dimension defaults to zero", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, 0, (&mock.Embedder{}).Dimension())
		assert.Equal(t, 8, (&mock.Embedder{DimensionFn: func() int { return 8 }}).Dimension())
	})
}
