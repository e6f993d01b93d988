package pipeline

// Buffer constants
const (
	// minCapacity is the smallest ring buffer capacity in samples.
	minCapacity = 64

	// bytesPerFloat32 is the encoded size of one float32LE sample.
	bytesPerFloat32 = 4
)
