// Package pipeline drives block rendering from a source into output sinks.
//
// A Source renders one block at a time and interleaves its stereo buses;
// the Run loop pulls blocks, hands them to a Sink chain (file writers,
// device buffers) and stops once the source falls silent.
package pipeline

import (
	"context"
	"fmt"
	"math"

	"github.com/tphakala/go-rvoice/internal/simdops"
)

// Source renders interleaved stereo audio block by block.
// *rvoice.Mixer satisfies it.
type Source[F simdops.Float] interface {
	// RenderBlock renders one block and returns the number of voices
	// still active.
	RenderBlock() int

	// Interleave writes the last block as [L0, R0, L1, R1, ...].
	Interleave(dst []F)
}

// Sink consumes interleaved blocks. The slice is reused after Write
// returns.
type Sink[F simdops.Float] interface {
	Write(interleaved []F) error
}

// SinkFunc adapts a function to a Sink.
type SinkFunc[F simdops.Float] func(interleaved []F) error

// Write calls f.
func (f SinkFunc[F]) Write(interleaved []F) error {
	return f(interleaved)
}

// Tee writes every block to each sink in order.
type Tee[F simdops.Float] []Sink[F]

// Write implements Sink, stopping at the first error.
func (t Tee[F]) Write(interleaved []F) error {
	for _, s := range t {
		if err := s.Write(interleaved); err != nil {
			return err
		}
	}
	return nil
}

// BufferSink writes blocks into a RingBuffer.
type BufferSink[F simdops.Float] struct {
	Buffer *RingBuffer[F]
}

// Write implements Sink.
func (s BufferSink[F]) Write(interleaved []F) error {
	_, err := s.Buffer.Write(interleaved)
	return err
}

// Options control a Run.
type Options struct {
	// BlockSize is the number of frames per block.
	BlockSize int

	// MaxBlocks stops the run after this many blocks; 0 means until the
	// source falls silent.
	MaxBlocks int

	// TailBlocks is the number of blocks still written after the source
	// reports no active voices.
	TailBlocks int

	// OnBlock, when set, is called before each block is rendered with the
	// block index. Control layers commit their targets here.
	OnBlock func(block int)
}

// Stats summarizes a finished run.
type Stats struct {
	Blocks int
	Frames int
	Peak   float64
}

// Run renders blocks from src into sink until src has no active voices
// and the tail is written, MaxBlocks is reached, ctx is cancelled or the
// sink fails.
func Run[F simdops.Float](ctx context.Context, src Source[F], sink Sink[F], opts Options) (Stats, error) {
	var stats Stats
	if opts.BlockSize <= 0 {
		return stats, fmt.Errorf("pipeline: block size %d must be positive", opts.BlockSize)
	}

	buf := make([]F, stereoFrames(opts.BlockSize))
	tail := opts.TailBlocks

	for block := 0; opts.MaxBlocks == 0 || block < opts.MaxBlocks; block++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if opts.OnBlock != nil {
			opts.OnBlock(block)
		}

		active := src.RenderBlock()
		src.Interleave(buf)
		for _, s := range buf {
			stats.Peak = max(stats.Peak, math.Abs(float64(s)))
		}

		if err := sink.Write(buf); err != nil {
			return stats, fmt.Errorf("pipeline: block %d: %w", block, err)
		}
		stats.Blocks++
		stats.Frames += opts.BlockSize

		if active == 0 {
			if tail == 0 {
				break
			}
			tail--
		}
	}
	return stats, nil
}

func stereoFrames(blockSize int) int {
	return 2 * blockSize
}
