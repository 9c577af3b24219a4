package spark

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorderEvictsOldest(t *testing.T) {
	r := NewRecorder()
	for i := 0; i < 100; i++ {
		r.Push(float64(i))
	}

	vals := r.Values()
	require.Len(t, vals, Capacity)
	// The first 20 samples have been evicted; what's left is 20..99 in order.
	assert.Equal(t, 20.0, vals[0])
	assert.Equal(t, 99.0, vals[len(vals)-1])
	for i := 1; i < len(vals); i++ {
		assert.Equal(t, vals[i-1]+1, vals[i])
	}
}

func TestRecorderNeverExceedsCapacity(t *testing.T) {
	r := NewRecorder()
	for i := 0; i < 500; i++ {
		r.Push(50)
		assert.LessOrEqual(t, r.Len(), Capacity)
	}
}

func TestRenderEmptyAndSingle(t *testing.T) {
	r := NewRecorder()

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf), "empty buffer must render without error")
	_, err := png.Decode(&buf)
	require.NoError(t, err)

	r.Push(42)
	buf.Reset()
	require.NoError(t, r.Render(&buf), "single sample must render without error")
	_, err = png.Decode(&buf)
	require.NoError(t, err)
}

func TestRenderPolyline(t *testing.T) {
	r := NewRecorder()
	for i := 0; i < Capacity; i++ {
		r.Push(float64(i % 100))
	}

	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf))
	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, renderWidth, img.Bounds().Dx())
	assert.Equal(t, renderHeight, img.Bounds().Dy())
}
