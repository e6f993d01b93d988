// Package sample defines the sample table a voice reads from.
//
// Tables are produced by a loader outside this module and are immutable
// once handed to a voice. A table is referenced, never owned, by the voices
// playing it, so many voices can share one table without copying.
package sample

import (
	"errors"
	"fmt"
	"math"
)

// GuardSamples is the number of samples the loader must provide past End.
// The widest interpolation kernel has 7 taps; this covers its full extent
// even for kernels anchored at the last playable index.
const GuardSamples = 6

// lsbScale converts the 8 low-order bits of a 24-bit sample into a fraction
// of one 16-bit step.
const lsbScale = 1.0 / 256.0

// fullScale is the magnitude of the most negative 16-bit sample.
const fullScale = 32768.0

// ErrInvalidTable indicates a table whose bounds or buffers violate the ordering invariants.
var ErrInvalidTable = errors.New("invalid sample table")

// Table is an immutable sequence of 16-bit sample values, optionally
// extended to 24 bits by a parallel slice of low-order bytes.
//
// Values read from a table are expressed in 16-bit units: a pure 16-bit
// table yields its raw integers and the low-order byte adds lsb/256.
type Table struct {
	// Data holds the most significant 16 bits of each sample.
	Data []int16

	// LSB optionally holds the least significant 8 bits of each sample.
	// nil for 16-bit tables.
	LSB []byte

	// Start is the first playable index.
	Start int

	// End is the last playable index (inclusive).
	End int

	// LoopStart is the first index of the loop region.
	LoopStart int

	// LoopEnd is the first index following the loop region; playback
	// wraps from LoopEnd back to LoopStart.
	LoopEnd int
}

// New creates a table over data covering [0, len(data)-GuardSamples-1] with
// the loop spanning the whole playable range. data must already carry the
// trailing guard samples (see Pad).
func New(data []int16) (*Table, error) {
	end := len(data) - GuardSamples - 1
	t := &Table{
		Data:      data,
		Start:     0,
		End:       end,
		LoopStart: 0,
		LoopEnd:   end,
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Validate checks 0 ≤ Start ≤ LoopStart < LoopEnd ≤ End, that the guard
// region past End exists, and that LSB, when present, matches Data.
//
// Validation belongs to load time; the render path trusts these invariants.
func (t *Table) Validate() error {
	if t == nil {
		return fmt.Errorf("%w: table is nil", ErrInvalidTable)
	}

	if t.Start < 0 {
		return fmt.Errorf("%w: start %d is negative", ErrInvalidTable, t.Start)
	}

	if t.LoopStart < t.Start {
		return fmt.Errorf("%w: loop start %d before start %d", ErrInvalidTable, t.LoopStart, t.Start)
	}

	if t.LoopEnd <= t.LoopStart {
		return fmt.Errorf("%w: loop end %d not after loop start %d", ErrInvalidTable, t.LoopEnd, t.LoopStart)
	}

	if t.End < t.LoopEnd {
		return fmt.Errorf("%w: end %d before loop end %d", ErrInvalidTable, t.End, t.LoopEnd)
	}

	if need := t.End + 1 + GuardSamples; len(t.Data) < need {
		return fmt.Errorf("%w: %d samples, need %d including %d guard samples",
			ErrInvalidTable, len(t.Data), need, GuardSamples)
	}

	if t.LSB != nil && len(t.LSB) != len(t.Data) {
		return fmt.Errorf("%w: lsb length %d does not match data length %d",
			ErrInvalidTable, len(t.LSB), len(t.Data))
	}

	return nil
}

// Is24Bit reports whether the table carries low-order bytes.
func (t *Table) Is24Bit() bool {
	return t.LSB != nil
}

// Int24 returns the 24-bit integer at index i, assembled from the
// 16-bit high part and the optional 8-bit low part.
func (t *Table) Int24(i int) int32 {
	msb := uint32(int32(t.Data[i]))
	var lsb uint32
	if t.LSB != nil {
		lsb = uint32(t.LSB[i])
	}
	return int32(msb<<8 | lsb)
}

// Len returns the number of playable samples (End - Start + 1).
func (t *Table) Len() int {
	return t.End - t.Start + 1
}

// LoopPeak returns the largest magnitude in the loop region as a fraction
// of 16-bit full scale. It scans the loop once and belongs to load time.
func (t *Table) LoopPeak() float64 {
	var peak float64
	for i := t.LoopStart; i < t.LoopEnd; i++ {
		peak = max(peak, math.Abs(Value[float64](t, i)))
	}
	return peak / fullScale
}

// Value returns sample i as F in 16-bit units.
func Value[F ~float32 | ~float64](t *Table, i int) F {
	if t.LSB == nil {
		return F(t.Data[i])
	}
	return F(t.Data[i]) + F(t.LSB[i])*lsbScale
}

// Pad returns a copy of data followed by guard zero samples.
func Pad(data []int16, guard int) []int16 {
	out := make([]int16, len(data)+guard)
	copy(out, data)
	return out
}

// PadLSB returns a copy of lsb followed by guard zero bytes.
func PadLSB(lsb []byte, guard int) []byte {
	out := make([]byte, len(lsb)+guard)
	copy(out, lsb)
	return out
}
