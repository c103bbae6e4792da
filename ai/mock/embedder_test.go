package mock

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockEmbedder_Deterministic(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "income ceiling")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "income ceiling")
	require.NoError(t, err)
	c, err := m.EmbedText(ctx, "age limit")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, DefaultDimension)

	var sum float64
	for _, x := range a {
		sum += float64(x) * float64(x)
	}
	assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-4)
	assert.Equal(t, 3, m.CallCount())
}

func TestMockEmbedder_Pinned(t *testing.T) {
	m := NewMockEmbedder().WithVector("question", 1, 0, 0, 0)

	vectors, err := m.EmbedTexts(context.Background(), []string{"question", "other"})
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0, 0, 0}, vectors[0])
	assert.Len(t, vectors[1], 4, "unpinned texts use the pinned dimension")
}

func TestMockEmbedder_InjectedFunc(t *testing.T) {
	m := NewMockEmbedder()
	boom := errors.New("boom")
	m.EmbedTextFunc = func(ctx context.Context, text string) ([]float32, error) {
		return nil, boom
	}

	_, err := m.EmbedText(context.Background(), "x")
	assert.ErrorIs(t, err, boom)

	m.Reset()
	assert.Zero(t, m.CallCount())
	_, err = m.EmbedText(context.Background(), "x")
	assert.NoError(t, err)
}
