package phase

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloat(t *testing.T) {
	tests := []struct {
		name      string
		x         float64
		wantIndex int
		wantFract uint32
	}{
		{"zero", 0, 0, 0},
		{"negative clamps", -3.5, 0, 0},
		{"integer", 7, 7, 0},
		{"half", 2.5, 2, 1 << 31},
		{"quarter", 0.25, 0, 1 << 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := FromFloat(tt.x)
			assert.Equal(t, tt.wantIndex, p.Index())
			assert.Equal(t, tt.wantFract, p.Fract())
		})
	}
}

func TestFloatRoundTrip(t *testing.T) {
	for _, x := range []float64{0, 0.5, 1.0, 3.140625, 1000.75, 1 << 20} {
		assert.InDelta(t, x, FromFloat(x).Float(), 1e-9, "x=%v", x)
	}
}

func TestAdd_Carry(t *testing.T) {
	p := FromFloat(0.75)
	incr := FromFloat(0.5)

	p = p.Add(incr)
	assert.Equal(t, 1, p.Index())
	assert.InDelta(t, 0.25, p.FractFloat(), 1e-12)

	p = p.Add(incr).Add(incr)
	assert.Equal(t, 2, p.Index())
	assert.InDelta(t, 0.25, p.FractFloat(), 1e-12)
}

func TestAdd_NoDrift(t *testing.T) {
	// A sustained note at a non-trivial pitch ratio: integer addition is
	// exact, so n increments land exactly on n*incr.
	incr := FromFloat(1.0594630943592953)
	var p Phase
	const steps = 1_000_000
	for range steps {
		p = p.Add(incr)
	}
	assert.Equal(t, Phase(uint64(incr)*steps), p)
}

func TestTableRow(t *testing.T) {
	assert.Equal(t, 0, FromFloat(0).TableRow())
	assert.Equal(t, InterpRows/2, FromFloat(0.5).TableRow())
	assert.Equal(t, InterpRows/4, FromFloat(3.25).TableRow())
	assert.Equal(t, InterpRows-1, Phase(fractMask).TableRow())
}

func TestUnity(t *testing.T) {
	assert.Equal(t, FromIndex(1), Unity)
	assert.True(t, Unity.IsAligned())
	assert.False(t, FromFloat(0.5).IsAligned())
}

func TestLooping(t *testing.T) {
	tests := []struct {
		mode     LoopMode
		released bool
		want     bool
	}{
		{Unlooped, false, false},
		{Unlooped, true, false},
		{Disabled, false, false},
		{LoopDuringRelease, false, true},
		{LoopDuringRelease, true, true},
		{LoopUntilRelease, false, true},
		{LoopUntilRelease, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, Looping(tt.mode, tt.released))
		})
	}
}

func TestWrap(t *testing.T) {
	b := Bounds{Start: 0, End: 20, LoopStart: 4, LoopEnd: 10}

	t.Run("inside loop", func(t *testing.T) {
		p, wrapped := b.Wrap(FromFloat(9.5))
		assert.False(t, wrapped)
		assert.InDelta(t, 9.5, p.Float(), 1e-12)
	})

	t.Run("overflow keeps fraction", func(t *testing.T) {
		p, wrapped := b.Wrap(FromFloat(11.25))
		require.True(t, wrapped)
		assert.Equal(t, 5, p.Index())
		assert.InDelta(t, 0.25, p.FractFloat(), 1e-12)
	})

	t.Run("exactly at loop end", func(t *testing.T) {
		p, wrapped := b.Wrap(FromIndex(10))
		require.True(t, wrapped)
		assert.Equal(t, 4, p.Index())
	})

	t.Run("increment larger than loop", func(t *testing.T) {
		p, wrapped := b.Wrap(FromIndex(23))
		require.True(t, wrapped)
		assert.Equal(t, 5, p.Index())
	})
}

func TestWrap_Sweep(t *testing.T) {
	b := Bounds{Start: 0, End: 100, LoopStart: 20, LoopEnd: 37}
	incr := FromFloat(1.37)

	p := FromIndex(0)
	for range 10_000 {
		p = p.Add(incr)
		p, _ = b.Wrap(p)
		require.Less(t, p.Index(), b.LoopEnd)
		require.GreaterOrEqual(t, p.Index(), b.Start)
	}
}

func TestWrapIndex(t *testing.T) {
	b := Bounds{Start: 0, End: 20, LoopStart: 4, LoopEnd: 10}

	assert.Equal(t, 9, b.WrapIndex(9))
	assert.Equal(t, 4, b.WrapIndex(10))
	assert.Equal(t, 6, b.WrapIndex(12))
	assert.Equal(t, 4, b.WrapIndex(16))
	assert.Equal(t, 0, b.Clamp(-2))
	assert.Equal(t, 3, b.Clamp(3))
}

func TestFromIndex_Large(t *testing.T) {
	p := FromIndex(math.MaxInt32)
	assert.Equal(t, math.MaxInt32, p.Index())
	assert.Zero(t, p.Fract())
}

func TestWrapBehind(t *testing.T) {
	b := Bounds{Start: 0, End: 20, LoopStart: 4, LoopEnd: 10}

	assert.Equal(t, 4, b.WrapBehind(4))
	assert.Equal(t, 9, b.WrapBehind(3))
	assert.Equal(t, 7, b.WrapBehind(1))
	assert.Equal(t, 9, b.WrapBehind(-3))
}
