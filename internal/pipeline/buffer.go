package pipeline

import (
	"errors"
	"sync"

	"github.com/tphakala/go-rvoice/internal/simdops"
)

// ErrClosed is returned when writing to a closed buffer.
var ErrClosed = errors.New("pipeline: buffer closed")

// RingBuffer is a bounded FIFO of samples between a producer, typically the
// block render loop, and a consumer such as an audio device callback.
// Capacity is rounded up to a power of two so positions wrap with a mask.
//
// Write blocks while the buffer is full and Read blocks while it is empty,
// so a fast renderer is paced by the device.
type RingBuffer[F simdops.Float] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	data     []F
	mask     int
	size     int
	readPos  int
	writePos int
	closed   bool
}

// NewRingBuffer creates a ring buffer holding at least capacity samples.
func NewRingBuffer[F simdops.Float](capacity int) *RingBuffer[F] {
	cap2 := minCapacity
	for cap2 < capacity {
		cap2 <<= 1
	}

	b := &RingBuffer[F]{
		data: make([]F, cap2),
		mask: cap2 - 1,
	}
	b.notEmpty = sync.NewCond(&b.mu)
	b.notFull = sync.NewCond(&b.mu)
	return b
}

// Write appends all of samples, waiting for space as needed. It returns
// ErrClosed, with the number of samples accepted so far, once the buffer
// is closed.
func (b *RingBuffer[F]) Write(samples []F) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	written := 0
	for written < len(samples) {
		for b.size == len(b.data) && !b.closed {
			b.notFull.Wait()
		}
		if b.closed {
			return written, ErrClosed
		}

		n := min(len(samples)-written, len(b.data)-b.size)
		for _, s := range samples[written : written+n] {
			b.data[b.writePos&b.mask] = s
			b.writePos++
		}
		b.size += n
		written += n
		b.notEmpty.Broadcast()
	}
	return written, nil
}

// Read fills dst with up to len(dst) samples, waiting until at least one
// is available. It returns 0 only when the buffer is closed and drained.
func (b *RingBuffer[F]) Read(dst []F) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	for b.size == 0 && !b.closed {
		b.notEmpty.Wait()
	}
	return b.readLocked(dst)
}

// TryRead is Read without waiting.
func (b *RingBuffer[F]) TryRead(dst []F) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.readLocked(dst)
}

func (b *RingBuffer[F]) readLocked(dst []F) int {
	n := min(len(dst), b.size)
	for i := range n {
		dst[i] = b.data[b.readPos&b.mask]
		b.readPos++
	}
	b.size -= n
	if n > 0 {
		b.notFull.Broadcast()
	}
	return n
}

// Available returns the number of samples available for reading.
func (b *RingBuffer[F]) Available() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.size
}

// Space returns the available space for writing.
func (b *RingBuffer[F]) Space() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.data) - b.size
}

// Capacity returns the buffer capacity.
func (b *RingBuffer[F]) Capacity() int {
	return len(b.data)
}

// Close wakes all waiters. Buffered samples stay readable.
func (b *RingBuffer[F]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	b.notEmpty.Broadcast()
	b.notFull.Broadcast()
}

// Clear removes all samples from the buffer.
func (b *RingBuffer[F]) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.size = 0
	b.readPos = 0
	b.writePos = 0
	b.notFull.Broadcast()
}
