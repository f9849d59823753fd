package index

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, CosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 0.0, CosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.InDelta(t, -1.0, CosineSimilarity([]float32{1, 0}, []float32{-1, 0}), 1e-6)
}

func TestCosineSimilarity_Degenerate(t *testing.T) {
	assert.Zero(t, CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}), "length mismatch")
	assert.Zero(t, CosineSimilarity(nil, nil), "empty vectors")
	assert.Zero(t, CosineSimilarity([]float32{0, 0}, []float32{1, 1}), "zero vector")
}
