package pipeline

import (
	"encoding/binary"
	"io"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingBuffer_Capacity(t *testing.T) {
	assert.Equal(t, minCapacity, NewRingBuffer[float32](1).Capacity())
	assert.Equal(t, 128, NewRingBuffer[float32](100).Capacity())
	assert.Equal(t, 1024, NewRingBuffer[float64](1024).Capacity())
}

func TestRingBuffer_FIFO(t *testing.T) {
	b := NewRingBuffer[float64](64)

	n, err := b.Write([]float64{1, 2, 3, 4, 5})
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, 5, b.Available())
	assert.Equal(t, 59, b.Space())

	out := make([]float64, 3)
	assert.Equal(t, 3, b.Read(out))
	assert.Equal(t, []float64{1, 2, 3}, out)

	assert.Equal(t, 2, b.TryRead(out))
	assert.Equal(t, []float64{4, 5}, out[:2])
	assert.Zero(t, b.TryRead(out))
}

func TestRingBuffer_Wraparound(t *testing.T) {
	b := NewRingBuffer[float32](64)
	in := make([]float32, 40)
	out := make([]float32, 40)

	for round := range 10 {
		for i := range in {
			in[i] = float32(round*100 + i)
		}
		_, err := b.Write(in)
		require.NoError(t, err)
		require.Equal(t, 40, b.Read(out))
		require.Equal(t, in, out, "round %d", round)
	}
}

func TestRingBuffer_WriteBlocksUntilRead(t *testing.T) {
	b := NewRingBuffer[float32](64)
	in := make([]float32, 200)
	for i := range in {
		in[i] = float32(i)
	}

	done := make(chan error, 1)
	go func() {
		_, err := b.Write(in)
		done <- err
	}()

	var got []float32
	chunk := make([]float32, 32)
	for len(got) < len(in) {
		n := b.Read(chunk)
		got = append(got, chunk[:n]...)
	}

	require.NoError(t, <-done)
	assert.Equal(t, in, got)
}

func TestRingBuffer_Close(t *testing.T) {
	b := NewRingBuffer[float32](64)
	_, err := b.Write([]float32{7, 8})
	require.NoError(t, err)
	b.Close()

	out := make([]float32, 4)
	assert.Equal(t, 2, b.Read(out), "buffered samples stay readable")
	assert.Zero(t, b.Read(out))

	_, err = b.Write([]float32{1})
	assert.ErrorIs(t, err, ErrClosed)
}

func TestRingBuffer_CloseWakesReader(t *testing.T) {
	b := NewRingBuffer[float32](64)

	var wg sync.WaitGroup
	wg.Add(1)
	var n int
	go func() {
		defer wg.Done()
		n = b.Read(make([]float32, 4))
	}()

	time.Sleep(10 * time.Millisecond)
	b.Close()
	wg.Wait()
	assert.Zero(t, n)
}

func TestRingBuffer_CloseWakesWriter(t *testing.T) {
	b := NewRingBuffer[float32](64)

	done := make(chan error, 1)
	go func() {
		_, err := b.Write(make([]float32, 100))
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	b.Close()
	assert.ErrorIs(t, <-done, ErrClosed)
}

func TestRingBuffer_Clear(t *testing.T) {
	b := NewRingBuffer[float64](64)
	_, _ = b.Write([]float64{1, 2, 3})
	b.Clear()
	assert.Zero(t, b.Available())
	assert.Equal(t, 64, b.Space())
}

func TestReader(t *testing.T) {
	b := NewRingBuffer[float32](64)
	_, err := b.Write([]float32{0.5, -1, 0.25})
	require.NoError(t, err)
	b.Close()

	r := NewReader(b)
	p := make([]byte, 10) // room for two whole samples
	n, err := r.Read(p)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	assert.InDelta(t, 0.5, math.Float32frombits(binary.LittleEndian.Uint32(p[0:])), 0)
	assert.InDelta(t, -1, math.Float32frombits(binary.LittleEndian.Uint32(p[4:])), 0)

	n, err = r.Read(p)
	require.NoError(t, err)
	assert.Equal(t, 4, n)

	_, err = r.Read(p)
	assert.ErrorIs(t, err, io.EOF)

	n, err = r.Read(p[:3])
	assert.Zero(t, n)
	assert.NoError(t, err)
}
