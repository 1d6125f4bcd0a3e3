package docbot

import "context"

// Embedder converts texts to fixed-dimension vectors.
type Embedder interface {
	// Embed returns one vector per text, in input order. Embedding the same
	// text twice yields equal vectors within floating-point tolerance.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the length of produced vectors, or 0 if unknown
	// until the first call.
	Dimension() int
}
