package embedding

import (
	"context"
	"hash/fnv"
	"math"

	domain "github.com/paybench/salary-advisor/internal/domain/recommendation"
)

// Deterministic avoids network calls by hashing text into a unit vector.
// Used for local development and tests.
type Deterministic struct {
	dim int
}

// NewDeterministic constructs the embedder.
func NewDeterministic(dim int) *Deterministic {
	if dim <= 0 {
		dim = 32
	}
	return &Deterministic{dim: dim}
}

// Embed converts the text into a pseudo-random, L2-normalized vector so that
// cosine similarities stay well behaved.
func (e *Deterministic) Embed(_ context.Context, text string) ([]float32, error) {
	vector := make([]float32, e.dim)
	hash := fnv.New64a()
	_, _ = hash.Write([]byte(text))
	seed := hash.Sum64()

	var norm float64
	for i := 0; i < e.dim; i++ {
		seed = seed*1099511628211 + 1469598103934665603
		v := float64(seed%997) / 997.0
		vector[i] = float32(v)
		norm += v * v
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vector {
			vector[i] *= scale
		}
	}
	return vector, nil
}

var _ domain.EmbeddingClient = (*Deterministic)(nil)
