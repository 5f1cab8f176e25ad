// Package pool provides reusable byte buffers to avoid per-record allocations
// while accumulating subscription payloads during decoding and while building
// serialized output during encoding.
package pool

import (
	"io"
	"sync"
)

// Default and maximum sizes for pooled buffers. Subscription buffers accumulate
// one flattened record at a time (typically a few hundred bytes), so pooled
// buffers start small; encoder output buffers hold an entire serialized log
// and are sized accordingly.
const (
	SubscriptionBufferDefaultSize = 1024 * 4    // 4KiB, enough for a few dozen records
	SubscriptionBufferMaxThreshold = 1024 * 256 // 256KiB, discard larger buffers on Put
	EncoderBufferDefaultSize       = 1024 * 64  // 64KiB
	EncoderBufferMaxThreshold      = 1024 * 1024 * 16
)

// ByteBuffer is a growable byte slice with an amortized growth strategy,
// intended to be reused via ByteBufferPool rather than reallocated per use.
type ByteBuffer struct {
	// B is the underlying byte slice.
	B []byte
}

// NewByteBuffer creates a new ByteBuffer with the specified default size.
func NewByteBuffer(defaultSize int) *ByteBuffer {
	return &ByteBuffer{
		B: make([]byte, 0, defaultSize),
	}
}

// Bytes returns the underlying byte slice.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset resets the buffer to be empty, but retains the allocated memory for reuse.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the length of the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// Cap returns the capacity of the buffer.
func (bb *ByteBuffer) Cap() int {
	return cap(bb.B)
}

// MustWrite appends data to the buffer, growing it if necessary.
func (bb *ByteBuffer) MustWrite(data []byte) {
	bb.Grow(len(data))
	bb.B = append(bb.B, data...)
}

// Slice returns a slice of the buffer from start to end.
// Panics if the indices are out of bounds.
func (bb *ByteBuffer) Slice(start, end int) []byte {
	if start < 0 || end < start || end > cap(bb.B) {
		panic("Slice: invalid indices")
	}

	return bb.B[start:end]
}

// Grow grows the buffer to ensure it can hold requiredBytes more bytes without
// reallocating on the next write.
//
//   - For small buffers (capacity up to 4x SubscriptionBufferDefaultSize),
//     grow by SubscriptionBufferDefaultSize to minimize the number of
//     reallocations while a subscription is still young.
//   - For larger buffers, grow by 25% of current capacity.
func (bb *ByteBuffer) Grow(requiredBytes int) {
	available := cap(bb.B) - len(bb.B)
	if available >= requiredBytes {
		return
	}

	growBy := SubscriptionBufferDefaultSize
	if cap(bb.B) > 4*SubscriptionBufferDefaultSize {
		growBy = cap(bb.B) / 4
	}

	if growBy < requiredBytes {
		growBy = requiredBytes
	}

	newBuf := make([]byte, len(bb.B), len(bb.B)+growBy)
	copy(newBuf, bb.B)
	bb.B = newBuf
}

// Write appends the contents of data to the buffer, growing it as needed.
// It implements io.Writer.
func (bb *ByteBuffer) Write(data []byte) (int, error) {
	bb.MustWrite(data)
	return len(data), nil
}

// WriteTo writes the contents of the buffer to w. It implements io.WriterTo.
func (bb *ByteBuffer) WriteTo(w io.Writer) (int64, error) {
	n, err := w.Write(bb.B)
	return int64(n), err
}

// ByteBufferPool is a pool of ByteBuffers to minimize allocations.
//
// The pool can be configured with a maximum size threshold to avoid retaining
// overly large buffers that could lead to memory bloat after decoding an
// unusually large log.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a new ByteBufferPool with buffers of the specified default size.
func NewByteBufferPool(defaultSize int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(defaultSize)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get retrieves a ByteBuffer from the pool.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put returns a ByteBuffer to the pool for reuse.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil {
		return
	}

	if bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var (
	subscriptionPool = NewByteBufferPool(SubscriptionBufferDefaultSize, SubscriptionBufferMaxThreshold)
	encoderPool      = NewByteBufferPool(EncoderBufferDefaultSize, EncoderBufferMaxThreshold)
)

// GetSubscriptionBuffer retrieves a ByteBuffer from the default subscription pool.
func GetSubscriptionBuffer() *ByteBuffer {
	return subscriptionPool.Get()
}

// PutSubscriptionBuffer returns a ByteBuffer to the default subscription pool.
func PutSubscriptionBuffer(bb *ByteBuffer) {
	subscriptionPool.Put(bb)
}

// GetEncoderBuffer retrieves a ByteBuffer from the default encoder output pool.
func GetEncoderBuffer() *ByteBuffer {
	return encoderPool.Get()
}

// PutEncoderBuffer returns a ByteBuffer to the default encoder output pool.
func PutEncoderBuffer(bb *ByteBuffer) {
	encoderPool.Put(bb)
}
