package embedding

import (
	"context"
	"fmt"
	"hash/fnv"
)

// HashingEmbedder is a deterministic, offline embedder: each token is hashed
// into one of Dimension buckets with a hash-derived sign, then the vector is
// L2-normalised. It needs no vocabulary, so corpus and queries embedded with
// the same dimension share one space.
type HashingEmbedder struct {
	dimension int
}

func NewHashingEmbedder(dimension int) *HashingEmbedder {
	if dimension <= 0 {
		dimension = 512
	}
	return &HashingEmbedder{dimension: dimension}
}

func (e *HashingEmbedder) Model() string {
	return fmt.Sprintf("hashing-%d", e.dimension)
}

func (e *HashingEmbedder) Dimension() int { return e.dimension }

func (e *HashingEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	vec := make([]float64, e.dimension)
	for _, tok := range Tokenize(text) {
		h := fnv.New64a()
		_, _ = h.Write([]byte(tok))
		sum := h.Sum64()

		idx := int(sum % uint64(e.dimension))
		if sum&(1<<63) != 0 {
			vec[idx]--
		} else {
			vec[idx]++
		}
	}
	return Normalize(vec), nil
}
