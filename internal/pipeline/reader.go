package pipeline

import (
	"encoding/binary"
	"io"
	"math"
)

// Reader exposes a float32 ring buffer as a stream of little-endian
// float32 bytes, the layout audio devices such as oto consume.
type Reader struct {
	buf     *RingBuffer[float32]
	scratch []float32
}

// NewReader returns a Reader draining buf.
func NewReader(buf *RingBuffer[float32]) *Reader {
	return &Reader{buf: buf}
}

// Read implements io.Reader. It waits for samples and returns io.EOF once
// the buffer is closed and drained. Only whole samples are returned.
func (r *Reader) Read(p []byte) (int, error) {
	n := len(p) / bytesPerFloat32
	if n == 0 {
		return 0, nil
	}
	if cap(r.scratch) < n {
		r.scratch = make([]float32, n)
	}

	got := r.buf.Read(r.scratch[:n])
	if got == 0 {
		return 0, io.EOF
	}
	for i, s := range r.scratch[:got] {
		binary.LittleEndian.PutUint32(p[i*bytesPerFloat32:], math.Float32bits(s))
	}
	return got * bytesPerFloat32, nil
}
