package ai

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeVector(t *testing.T) {
	tests := []struct {
		name  string
		input []float32
		want  []float32
	}{
		{"unit vector", []float32{1, 0, 0}, []float32{1, 0, 0}},
		{"3-4-5", []float32{3, 4}, []float32{0.6, 0.8}},
		{"zero vector", []float32{0, 0}, []float32{0, 0}},
		{"non-finite", []float32{float32(math.Inf(1)), 1}, []float32{0, 0}},
		{"empty", []float32{}, []float32{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeVector(tt.input)
			assert.InDeltaSlice(t, tt.want, got, 1e-6)
		})
	}
}

func TestNormalizeVector_DoesNotMutateInput(t *testing.T) {
	in := []float32{3, 4}
	out := NormalizeVector(in)
	assert.Equal(t, []float32{3, 4}, in)
	assert.InDelta(t, 1.0, Norm(out), 1e-6)
}

func TestNorm(t *testing.T) {
	assert.InDelta(t, 5.0, Norm([]float32{3, 4}), 1e-9)
	assert.Zero(t, Norm(nil))
}

func TestCheckEmbedding(t *testing.T) {
	require.NoError(t, CheckEmbedding([]float32{0.1, 0.2}))

	assert.ErrorIs(t, CheckEmbedding(nil), ErrEmptyEmbedding)
	assert.ErrorIs(t, CheckEmbedding([]float32{0, 0}), ErrInvalidEmbedding)
	assert.ErrorIs(t, CheckEmbedding([]float32{float32(math.NaN()), 1}), ErrInvalidEmbedding)
	assert.ErrorIs(t, CheckEmbedding([]float32{1, float32(math.Inf(-1))}), ErrInvalidEmbedding)
}
