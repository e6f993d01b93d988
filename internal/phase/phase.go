// Package phase implements the fixed-point read position of a voice.
//
// A Phase is an unsigned 64-bit fixed-point number with 32 integer bits
// (the sample index) and 32 fractional bits (the sub-sample offset). Adding
// two phases propagates the fractional carry into the index for free, so
// a voice can advance by any pitch ratio for arbitrarily long sustained
// notes without accumulating floating-point drift.
package phase

// Fixed-point layout.
const (
	// FractBits is the number of fractional bits.
	FractBits = 32

	// InterpBits is the number of fractional bits used to select an
	// interpolation coefficient row.
	InterpBits = 8

	// InterpRows is the number of interpolation coefficient rows.
	InterpRows = 1 << InterpBits

	// interpShift moves the top InterpBits fractional bits down to a row index.
	interpShift = FractBits - InterpBits

	// fractScale is 2^32 as a float, the weight of one integer step.
	fractScale = float64(1 << FractBits)

	fractMask = 1<<FractBits - 1
)

// Phase is a 32.32 fixed-point sample position or increment.
type Phase uint64

// Unity is an increment of exactly one sample.
const Unity Phase = 1 << FractBits

// FromIndex returns the phase at integer sample index i with zero fraction.
func FromIndex(i int) Phase {
	return Phase(uint64(uint32(i)) << FractBits)
}

// FromFloat converts a non-negative sample position to fixed point.
// Negative values are clamped to zero.
func FromFloat(x float64) Phase {
	if x <= 0 {
		return 0
	}
	whole := uint64(x)
	fract := uint64((x - float64(whole)) * fractScale)
	return Phase(whole<<FractBits | fract&fractMask)
}

// Float returns the phase as a float64 position.
func (p Phase) Float() float64 {
	return float64(p.Index()) + p.FractFloat()
}

// Index returns the integer sample index.
func (p Phase) Index() int {
	return int(uint64(p) >> FractBits)
}

// Fract returns the raw 32-bit fractional part.
func (p Phase) Fract() uint32 {
	return uint32(p)
}

// FractFloat returns the fractional part in [0, 1).
func (p Phase) FractFloat() float64 {
	return float64(p.Fract()) / fractScale
}

// TableRow returns the interpolation coefficient row in [0, InterpRows).
func (p Phase) TableRow() int {
	return int(p.Fract() >> interpShift)
}

// Add returns p advanced by incr.
func (p Phase) Add(incr Phase) Phase {
	return p + incr
}

// IsAligned reports whether p has a zero fractional part.
func (p Phase) IsAligned() bool {
	return p.Fract() == 0
}

// SubIndex returns p moved back by n whole samples, fraction unchanged.
func (p Phase) SubIndex(n int) Phase {
	return p - Phase(uint64(uint32(n))<<FractBits)
}
