package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuffer_Sized(t *testing.T) {
	var b Buffer

	s := b.Sized(16)
	require.Len(t, s, 16)
	require.GreaterOrEqual(t, cap(b.B), 16)

	// Shrinking reuses capacity.
	prev := cap(b.B)
	s = b.Sized(8)
	require.Len(t, s, 8)
	assert.Equal(t, prev, cap(b.B))
}

func TestBufferPool_ReusesBuffers(t *testing.T) {
	p := NewBufferPool(32, 1024)

	b := p.Get()
	require.NotNil(t, b)
	b.Sized(64)
	p.Put(b)

	b2 := p.Get()
	require.NotNil(t, b2)
	assert.Zero(t, len(b2.B))
}

func TestBufferPool_DropsOversized(t *testing.T) {
	p := NewBufferPool(32, 64)

	b := p.Get()
	b.Sized(4096)
	p.Put(b) // silently dropped

	b2 := p.Get()
	assert.LessOrEqual(t, cap(b2.B), 64)
}

func TestBufferPool_PutNil(t *testing.T) {
	p := NewBufferPool(32, 64)
	assert.NotPanics(t, func() { p.Put(nil) })
}
