package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countdown is a source that stays active for a fixed number of blocks
// and renders the block index on both channels.
type countdown struct {
	active int
	block  int
}

func (c *countdown) RenderBlock() int {
	c.block++
	c.active = max(c.active-1, 0)
	return c.active
}

func (c *countdown) Interleave(dst []float64) {
	for i := range dst {
		dst[i] = float64(c.block)
	}
}

func TestRun_StopsAfterTail(t *testing.T) {
	src := &countdown{active: 3}
	var blocks []float64
	sink := SinkFunc[float64](func(b []float64) error {
		assert.Len(t, b, 8)
		blocks = append(blocks, b[0])
		return nil
	})

	stats, err := Run[float64](context.Background(), src, sink, Options{BlockSize: 4, TailBlocks: 2})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, blocks)
	assert.Equal(t, 5, stats.Blocks)
	assert.Equal(t, 20, stats.Frames)
	assert.InDelta(t, 5.0, stats.Peak, 0)
}

func TestRun_MaxBlocks(t *testing.T) {
	src := &countdown{active: 100}
	var seen []int
	stats, err := Run[float64](context.Background(), src, SinkFunc[float64](func([]float64) error { return nil }), Options{
		BlockSize: 2,
		MaxBlocks: 3,
		OnBlock:   func(b int) { seen = append(seen, b) },
	})
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Blocks)
	assert.Equal(t, []int{0, 1, 2}, seen)
}

func TestRun_SinkError(t *testing.T) {
	boom := errors.New("disk full")
	src := &countdown{active: 10}
	calls := 0
	sink := Tee[float64]{
		SinkFunc[float64](func([]float64) error { calls++; return nil }),
		SinkFunc[float64](func([]float64) error { return boom }),
	}

	stats, err := Run[float64](context.Background(), src, sink, Options{BlockSize: 2})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
	assert.Zero(t, stats.Blocks)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run[float64](ctx, &countdown{active: 10}, SinkFunc[float64](func([]float64) error { return nil }), Options{BlockSize: 2})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_InvalidBlockSize(t *testing.T) {
	_, err := Run[float64](context.Background(), &countdown{}, Tee[float64]{}, Options{})
	assert.Error(t, err)
}

func TestBufferSink(t *testing.T) {
	b := NewRingBuffer[float64](64)
	sink := BufferSink[float64]{Buffer: b}

	_, err := Run[float64](context.Background(), &countdown{active: 1}, sink, Options{BlockSize: 4})
	require.NoError(t, err)
	assert.Equal(t, 8, b.Available())

	b.Close()
	require.ErrorIs(t, sink.Write([]float64{1}), ErrClosed)
}
