// Package pool provides reusable I/O buffers for file copy operations.
package pool

import "sync"

// FixedBufferPool hands out byte slices of a single fixed size.
// Copy workers borrow a buffer per file instead of allocating one each time.
type FixedBufferPool struct {
	size int64
	pool sync.Pool
}

// NewFixedBuffer creates a pool of buffers of exactly 'size' bytes.
func NewFixedBuffer(size int64) *FixedBufferPool {
	return &FixedBufferPool{
		size: size,
		pool: sync.Pool{
			New: func() any {
				b := make([]byte, int(size))
				return &b
			},
		},
	}
}

// Get retrieves a pointer to a byte slice of the pool's fixed size.
func (fp *FixedBufferPool) Get() *[]byte {
	return fp.pool.Get().(*[]byte)
}

// Put returns the buffer to the pool.
func (fp *FixedBufferPool) Put(b *[]byte) {
	// Only put it back if it's the right size.
	if b == nil || int64(cap(*b)) != fp.size {
		return
	}
	*b = (*b)[:fp.size]
	fp.pool.Put(b)
}
