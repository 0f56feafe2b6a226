// Package embedding turns text into vectors in the same space as the
// precomputed scholarship corpus.
package embedding

import "context"

// Embedder converts free text into a vector. Implementations must be safe
// for concurrent use.
type Embedder interface {
	// Model identifies the embedding space; vectors from different models
	// must never be compared.
	Model() string
	Embed(ctx context.Context, text string) ([]float64, error)
}
