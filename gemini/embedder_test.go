package gemini_test

import (
	"context"
	"testing"

	"github.com/fwojciec/docbot"
	"github.com/fwojciec/docbot/gemini"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbedder_Embed_ReturnsErrorWhenNoTexts(t *testing.T) {
	t.Parallel()

	e := gemini.NewEmbedder(nil, "", 0) // nil client ok for this test

	_, err := e.Embed(context.Background(), nil)

	require.Error(t, err)
	assert.Equal(t, docbot.EINVALID, docbot.ErrorCode(err))
}

func TestNewEmbedder_Defaults(t *testing.T) {
	t.Parallel()

	assert.Equal(t, gemini.DefaultDimension, gemini.NewEmbedder(nil, "", 0).Dimension())
	assert.Equal(t, 256, gemini.NewEmbedder(nil, "text-embedding-004", 256).Dimension())
}

func TestBuildEmbedConfig_SetsDimensionality(t *testing.T) {
	t.Parallel()

	config := gemini.BuildEmbedConfig(512)

	require.NotNil(t, config.OutputDimensionality)
	assert.Equal(t, int32(512), *config.OutputDimensionality)
}
