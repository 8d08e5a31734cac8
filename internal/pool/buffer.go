// Package pool provides pooled byte buffers for the accessor encode path.
package pool

import "sync"

const (
	// DefaultSize is the starting capacity of a pooled buffer.
	DefaultSize = 512
	// MaxRetained is the largest capacity returned to the pool; bigger
	// buffers are dropped to keep one oversized encode from pinning memory.
	MaxRetained = 64 * 1024
)

// Buffer is a reusable byte buffer. B is the live slice; Sized and Reset
// manage it without reallocating when capacity allows.
type Buffer struct {
	B []byte
}

// Sized returns a length-n slice backed by the buffer, growing capacity if
// needed. Contents are unspecified; callers overwrite every byte.
func (b *Buffer) Sized(n int) []byte {
	if cap(b.B) < n {
		b.B = make([]byte, n)
	}
	b.B = b.B[:n]
	return b.B
}

// Reset empties the buffer, retaining capacity.
func (b *Buffer) Reset() {
	b.B = b.B[:0]
}

// BufferPool hands out Buffers backed by a sync.Pool, discarding buffers
// that grew past maxRetained.
type BufferPool struct {
	pool        sync.Pool
	maxRetained int
}

// NewBufferPool creates a pool whose fresh buffers start at defaultSize
// capacity and which retains buffers up to maxRetained bytes.
func NewBufferPool(defaultSize, maxRetained int) *BufferPool {
	return &BufferPool{
		pool: sync.Pool{
			New: func() any {
				return &Buffer{B: make([]byte, 0, defaultSize)}
			},
		},
		maxRetained: maxRetained,
	}
}

// Get rents a buffer from the pool.
func (p *BufferPool) Get() *Buffer {
	b, _ := p.pool.Get().(*Buffer)
	return b
}

// Put returns a buffer to the pool. Each rented buffer must be returned
// exactly once, and never used after.
func (p *BufferPool) Put(b *Buffer) {
	if b == nil {
		return
	}
	if p.maxRetained > 0 && cap(b.B) > p.maxRetained {
		return
	}
	b.Reset()
	p.pool.Put(b)
}

var defaultPool = NewBufferPool(DefaultSize, MaxRetained)

// Get rents a buffer from the package default pool.
func Get() *Buffer {
	return defaultPool.Get()
}

// Put returns a buffer to the package default pool.
func Put(b *Buffer) {
	defaultPool.Put(b)
}
