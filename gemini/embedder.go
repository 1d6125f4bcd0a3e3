package gemini

import (
	"context"

	"github.com/fwojciec/docbot"
	"google.golang.org/genai"
)

// MaxBatchSize is the largest number of texts sent in one request.
const MaxBatchSize = 100

var _ docbot.Embedder = (*Embedder)(nil)

// Embedder implements docbot.Embedder using the Gemini embedding API.
type Embedder struct {
	client *genai.Client
	model  string
	dim    int
}

// NewEmbedder creates an Embedder for model producing dim-length vectors.
func NewEmbedder(client *genai.Client, model string, dim int) *Embedder {
	if model == "" {
		model = DefaultEmbeddingModel
	}
	if dim <= 0 {
		dim = DefaultDimension
	}
	return &Embedder{client: client, model: model, dim: dim}
}

// Dimension returns the configured output dimensionality.
func (e *Embedder) Dimension() int {
	return e.dim
}

// Embed embeds texts in batches of at most MaxBatchSize.
func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, docbot.Errorf(docbot.EINVALID, "no texts to embed")
	}

	out := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += MaxBatchSize {
		end := min(start+MaxBatchSize, len(texts))
		vecs, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		out = append(out, vecs...)
	}
	return out, nil
}

func (e *Embedder) embedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	contents := make([]*genai.Content, len(texts))
	for i, text := range texts {
		contents[i] = genai.NewContentFromText(text, "user")
	}

	result, err := e.client.Models.EmbedContent(ctx, e.model, contents, BuildEmbedConfig(e.dim))
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, docbot.Errorf(docbot.EEMBEDDING, "gemini returned nil result")
	}
	if len(result.Embeddings) != len(texts) {
		return nil, docbot.Errorf(docbot.EEMBEDDING, "gemini returned %d embeddings for %d texts", len(result.Embeddings), len(texts))
	}

	vecs := make([][]float32, len(result.Embeddings))
	for i, emb := range result.Embeddings {
		if emb == nil {
			return nil, docbot.Errorf(docbot.EEMBEDDING, "gemini returned nil embedding %d", i)
		}
		vecs[i] = emb.Values
	}
	return vecs, nil
}

// BuildEmbedConfig returns the EmbedContentConfig requesting dim-length
// vectors.
func BuildEmbedConfig(dim int) *genai.EmbedContentConfig {
	d := int32(dim)
	return &genai.EmbedContentConfig{
		OutputDimensionality: &d,
	}
}
