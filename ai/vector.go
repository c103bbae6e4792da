package ai

import (
	"fmt"
	"math"
)

// Norm returns the Euclidean length of v, accumulated in float64.
func Norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// NormalizeVector returns a unit-length copy of v so that dot products
// against stored chunks are cosine similarities. Vectors with no usable
// length come back as zeros, which retrieval rejects as an empty query.
func NormalizeVector(v []float32) []float32 {
	out := make([]float32, len(v))
	n := Norm(v)
	if n == 0 || math.IsNaN(n) || math.IsInf(n, 0) {
		return out
	}
	scale := 1 / n
	for i, x := range v {
		out[i] = float32(float64(x) * scale)
	}
	return out
}

// CheckEmbedding reports whether v can be stored in the semantic index.
func CheckEmbedding(v []float32) error {
	if len(v) == 0 {
		return ErrEmptyEmbedding
	}
	for i, x := range v {
		f := float64(x)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: component %d is %v", ErrInvalidEmbedding, i, x)
		}
	}
	if Norm(v) == 0 {
		return fmt.Errorf("%w: zero vector", ErrInvalidEmbedding)
	}
	return nil
}
