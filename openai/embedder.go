package openai

import (
	"context"

	"github.com/fwojciec/docbot"
	openai "github.com/sashabaranov/go-openai"
)

var _ docbot.Embedder = (*Embedder)(nil)

// Embedder implements docbot.Embedder with the embeddings endpoint.
type Embedder struct {
	client *openai.Client
	model  string
	dim    int
	// dimensions is sent with the request when the caller shortened the
	// model's native output.
	dimensions int
}

// NewEmbedder creates an Embedder. A dim of 0 uses the model's native
// dimension.
func NewEmbedder(client *openai.Client, model string, dim int) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	e := &Embedder{client: client, model: model, dim: dim}
	native := ModelDimension(model)
	switch {
	case dim <= 0:
		e.dim = native
	case native > 0 && dim != native:
		e.dimensions = dim
	}
	return e
}

// Dimension returns the vector length, or 0 for unknown models until
// configured.
func (e *Embedder) Dimension() int {
	return e.dim
}

// Embed embeds all texts in one request.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, docbot.Errorf(docbot.EINVALID, "no texts to embed")
	}

	resp, err := e.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Model:      openai.EmbeddingModel(e.model),
		Input:      texts,
		Dimensions: e.dimensions,
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Data) != len(texts) {
		return nil, docbot.Errorf(docbot.EEMBEDDING, "openai returned %d embeddings for %d texts", len(resp.Data), len(texts))
	}

	out := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(out) || out[d.Index] != nil {
			return nil, docbot.Errorf(docbot.EEMBEDDING, "openai returned invalid embedding index %d", d.Index)
		}
		v := make([]float32, len(d.Embedding))
		for i := range d.Embedding {
			v[i] = float32(d.Embedding[i])
		}
		out[d.Index] = v
	}
	return out, nil
}
