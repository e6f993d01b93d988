// Package engine renders a voice's sample table into a block buffer.
//
// The engine reconstructs the waveform at a fixed-point read position using
// one of four kernels, applies a per-sample linear amplitude ramp in the same
// loop, and handles looping. It trusts the table invariants established by
// the loader and performs no allocation.
package engine

import (
	"github.com/tphakala/go-rvoice/internal/phase"
	"github.com/tphakala/go-rvoice/internal/sample"
	"github.com/tphakala/go-rvoice/internal/simdops"
)

// DSP is the render-path state of one voice.
//
// Fields exported here are owned by the voice; the engine reads them at the
// start of Interpolate and writes Phase, Amp and HasLooped back at its end.
type DSP[F simdops.Float] struct {
	// Method is the interpolation kernel.
	Method Method

	// Bounds are the playable and loop indices into the table.
	Bounds phase.Bounds

	// Mode is the loop mode; combined with Released it decides wrapping.
	Mode phase.LoopMode

	// Released is set once the note has been released.
	Released bool

	// Phase is the current read position.
	Phase phase.Phase

	// Incr is the per-sample phase increment.
	Incr phase.Phase

	// Amp is the current linear amplitude.
	Amp F

	// AmpIncr is added to Amp after every output sample.
	AmpIncr F

	// HasLooped is set the first time playback wraps at the loop end.
	HasLooped bool

	table    *sample.Table
	tables   *coeffTables[F]
	finished bool
}

// NewDSP creates render state for table t with bounds taken from the table.
func NewDSP[F simdops.Float](t *sample.Table, m Method) *DSP[F] {
	d := &DSP[F]{tables: tablesFor[F]()}
	d.SetSample(t)
	d.Method = m
	return d
}

// SetSample points the state at table t, resets bounds to the table's and
// moves the read position to its start.
func (d *DSP[F]) SetSample(t *sample.Table) {
	d.table = t
	d.Bounds = phase.Bounds{
		Start:     t.Start,
		End:       t.End,
		LoopStart: t.LoopStart,
		LoopEnd:   t.LoopEnd,
	}
	d.Phase = phase.FromIndex(t.Start)
	d.HasLooped = false
	d.finished = false
}

// Sample returns the table being played.
func (d *DSP[F]) Sample() *sample.Table {
	return d.table
}

// Reset rewinds to the table start and clears amplitude and loop state.
// Method, bounds and mode are kept.
func (d *DSP[F]) Reset() {
	d.Phase = phase.FromIndex(d.Bounds.Start)
	d.Incr = phase.Unity
	d.Amp = 0
	d.AmpIncr = 0
	d.Released = false
	d.HasLooped = false
	d.finished = false
}

// Finished reports whether an unlooped voice has played past its end.
func (d *DSP[F]) Finished() bool {
	return d.finished
}

// Looping reports whether the voice currently wraps at the loop end.
func (d *DSP[F]) Looping() bool {
	return phase.Looping(d.Mode, d.Released)
}

// Interpolate renders end-start samples into dst[start:end] and returns the
// number produced. When an unlooped voice runs past its end, the remainder
// of the range is zero-filled, the count is short and Finished reports true.
//
// Aligned playback at unity increment bypasses the kernels and copies raw
// samples scaled by the amplitude, for every method.
func (d *DSP[F]) Interpolate(dst []F, start, end int) int {
	if d.finished {
		clear(dst[start:end])
		return 0
	}

	var n int
	switch {
	case d.Incr == phase.Unity && d.Phase.IsAligned():
		n = d.copyAligned(dst, start, end)
	case d.Method == MethodNone:
		n = d.nearest(dst, start, end)
	case d.Method == MethodLinear:
		n = d.linear(dst, start, end)
	case d.Method == Method7thOrder:
		n = d.sinc7(dst, start, end)
	default:
		n = d.cubic4(dst, start, end)
	}

	if start+n < end {
		d.finished = true
		clear(dst[start+n : end])
	}
	return n
}

// at returns table sample i in 16-bit units.
func (d *DSP[F]) at(i int) F {
	return sample.Value[F](d.table, i)
}

// advance reports whether rendering may continue at the current phase,
// wrapping it into the loop when needed. It returns the index to read.
func (d *DSP[F]) advance(looping bool) (int, bool) {
	idx := d.Phase.Index()
	if looping {
		if idx >= d.Bounds.LoopEnd {
			d.Phase, _ = d.Bounds.Wrap(d.Phase)
			d.HasLooped = true
			idx = d.Phase.Index()
		}
		return idx, true
	}
	return idx, idx <= d.Bounds.End
}

// tap returns the sample at index i for a kernel anchored inside the
// playable range. Lookbehind taps before the loop start of a voice that has
// already looped come from the loop tail; other lookbehind taps are clamped
// to Start. Lookahead taps of a looping voice wrap at the loop end.
func (d *DSP[F]) tap(i int, looping bool) F {
	b := d.Bounds
	switch {
	case looping && i >= b.LoopEnd:
		i = b.WrapIndex(i)
	case looping && d.HasLooped && i < b.LoopStart:
		i = b.WrapBehind(i)
	default:
		i = b.Clamp(i)
	}
	return d.at(i)
}

// interior reports whether every tap from idx-behind to idx+ahead can be
// read directly without clamping or wrapping.
func (d *DSP[F]) interior(idx, behind, ahead int, looping bool) bool {
	lo, hi := idx-behind, idx+ahead
	if looping {
		if hi >= d.Bounds.LoopEnd {
			return false
		}
		if d.HasLooped && lo < d.Bounds.LoopStart {
			return false
		}
	}
	return lo >= d.Bounds.Start
}

func (d *DSP[F]) copyAligned(dst []F, start, end int) int {
	looping := d.Looping()
	amp, ampIncr := d.Amp, d.AmpIncr

	i := start
	for ; i < end; i++ {
		idx, ok := d.advance(looping)
		if !ok {
			break
		}
		dst[i] = amp * d.at(idx)
		amp += ampIncr
		d.Phase += phase.Unity
	}

	d.Amp = amp
	return i - start
}

func (d *DSP[F]) nearest(dst []F, start, end int) int {
	looping := d.Looping()
	amp, ampIncr := d.Amp, d.AmpIncr

	i := start
	for ; i < end; i++ {
		idx, ok := d.advance(looping)
		if !ok {
			break
		}
		dst[i] = amp * d.at(idx)
		amp += ampIncr
		d.Phase += d.Incr
	}

	d.Amp = amp
	return i - start
}

func (d *DSP[F]) linear(dst []F, start, end int) int {
	looping := d.Looping()
	amp, ampIncr := d.Amp, d.AmpIncr
	rows := &d.tables.linear

	i := start
	for ; i < end; i++ {
		idx, ok := d.advance(looping)
		if !ok {
			break
		}
		c := &rows[d.Phase.TableRow()]

		var v F
		if d.interior(idx, 0, linearTaps-1, looping) {
			v = c[0]*d.at(idx) + c[1]*d.at(idx+1)
		} else {
			v = c[0]*d.tap(idx, looping) + c[1]*d.tap(idx+1, looping)
		}

		dst[i] = amp * v
		amp += ampIncr
		d.Phase += d.Incr
	}

	d.Amp = amp
	return i - start
}

func (d *DSP[F]) cubic4(dst []F, start, end int) int {
	looping := d.Looping()
	amp, ampIncr := d.Amp, d.AmpIncr
	rows := &d.tables.cubic

	i := start
	for ; i < end; i++ {
		idx, ok := d.advance(looping)
		if !ok {
			break
		}
		c := &rows[d.Phase.TableRow()]

		var v F
		if d.interior(idx, cubicBehind, cubicTaps-cubicBehind-1, looping) {
			v = c[0]*d.at(idx-1) +
				c[1]*d.at(idx) +
				c[2]*d.at(idx+1) +
				c[3]*d.at(idx+2)
		} else {
			for k := range cubicTaps {
				v += c[k] * d.tap(idx+k-cubicBehind, looping)
			}
		}

		dst[i] = amp * v
		amp += ampIncr
		d.Phase += d.Incr
	}

	d.Amp = amp
	return i - start
}

func (d *DSP[F]) sinc7(dst []F, start, end int) int {
	looping := d.Looping()
	amp, ampIncr := d.Amp, d.AmpIncr
	rows := &d.tables.sinc

	i := start
	for ; i < end; i++ {
		idx, ok := d.advance(looping)
		if !ok {
			break
		}
		c := &rows[d.Phase.TableRow()]

		var v F
		if d.interior(idx, sincBehind, sincTaps-sincBehind-1, looping) {
			v = c[0]*d.at(idx-3) +
				c[1]*d.at(idx-2) +
				c[2]*d.at(idx-1) +
				c[3]*d.at(idx) +
				c[4]*d.at(idx+1) +
				c[5]*d.at(idx+2) +
				c[6]*d.at(idx+3)
		} else {
			for k := range sincTaps {
				v += c[k] * d.tap(idx+k-sincBehind, looping)
			}
		}

		dst[i] = amp * v
		amp += ampIncr
		d.Phase += d.Incr
	}

	d.Amp = amp
	return i - start
}
