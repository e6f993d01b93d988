// Package filter implements the voice's resonant low-pass stage: a
// second-order IIR in Direct Form II with optional coefficient glides.
//
// The filter state is owned by one voice and processed in place on the
// voice's block buffer. Apply never allocates.
package filter

import (
	"github.com/tphakala/go-rvoice/internal/simdops"
)

// Coefficients are the four free coefficients of a second-order section
// whose feed-forward part is symmetric (b0 == b2, stored once as B02):
//
//	H(z) = (B02 + B1·z⁻¹ + B02·z⁻²) / (1 + A1·z⁻¹ + A2·z⁻²)
type Coefficients[F simdops.Float] struct {
	A1  F
	A2  F
	B02 F
	B1  F
}

// Identity returns coefficients whose response is exactly 1: the poles at
// ±j cancel the zeros at ±j term by term.
func Identity[F simdops.Float]() Coefficients[F] {
	return Coefficients[F]{A2: 1, B02: 1}
}

// Convert changes the precision of c.
func Convert[T, F simdops.Float](c Coefficients[F]) Coefficients[T] {
	return Coefficients[T]{A1: T(c.A1), A2: T(c.A2), B02: T(c.B02), B1: T(c.B1)}
}

// IIR is the running state of one resonant filter.
type IIR[F simdops.Float] struct {
	cur    Coefficients[F]
	incr   Coefficients[F]
	target Coefficients[F]

	// count is the number of samples left in the current glide.
	count int

	hist1 F
	hist2 F
}

// DenormalThreshold returns the hist1 flush threshold for F.
func DenormalThreshold[F simdops.Float]() F {
	var zero F
	if _, ok := any(zero).(float32); ok {
		return F(denormalThreshold32)
	}
	return F(denormalThreshold64)
}

// New returns a filter initialized to c with cleared history.
func New[F simdops.Float](c Coefficients[F]) *IIR[F] {
	f := &IIR[F]{}
	f.SetCoefficients(c)
	return f
}

// SetCoefficients jumps to c and cancels any glide in progress.
func (f *IIR[F]) SetCoefficients(c Coefficients[F]) {
	f.cur = c
	f.target = c
	f.incr = Coefficients[F]{}
	f.count = 0
}

// SetTarget starts a glide from the current coefficients to c over the
// given number of samples. After exactly that many output samples the
// coefficients equal c. A non-positive length jumps immediately.
func (f *IIR[F]) SetTarget(c Coefficients[F], samples int) {
	if samples <= 0 {
		f.SetCoefficients(c)
		return
	}
	n := F(samples)
	f.incr = Coefficients[F]{
		A1:  (c.A1 - f.cur.A1) / n,
		A2:  (c.A2 - f.cur.A2) / n,
		B02: (c.B02 - f.cur.B02) / n,
		B1:  (c.B1 - f.cur.B1) / n,
	}
	f.target = c
	f.count = samples
}

// SetIncrements starts a glide from explicit per-sample increments, as
// computed by a control layer. The glide ends on current + count·incr.
func (f *IIR[F]) SetIncrements(incr Coefficients[F], count int) {
	if count <= 0 {
		f.incr = Coefficients[F]{}
		f.target = f.cur
		f.count = 0
		return
	}
	n := F(count)
	f.incr = incr
	f.target = Coefficients[F]{
		A1:  f.cur.A1 + n*incr.A1,
		A2:  f.cur.A2 + n*incr.A2,
		B02: f.cur.B02 + n*incr.B02,
		B1:  f.cur.B1 + n*incr.B1,
	}
	f.count = count
}

// Coefficients returns the current coefficients.
func (f *IIR[F]) Coefficients() Coefficients[F] {
	return f.cur
}

// Target returns the coefficients the current glide lands on.
func (f *IIR[F]) Target() Coefficients[F] {
	return f.target
}

// Remaining returns the number of samples left in the current glide.
func (f *IIR[F]) Remaining() int {
	return f.count
}

// Reset clears the history registers. Coefficients and glide are kept.
func (f *IIR[F]) Reset() {
	f.hist1 = 0
	f.hist2 = 0
}

// flushDenormal zeroes hist1 when its magnitude is below the threshold.
func (f *IIR[F]) flushDenormal() {
	thr := DenormalThreshold[F]()
	if f.hist1 < thr && f.hist1 > -thr {
		f.hist1 = 0
	}
}

// Apply filters buf in place.
func (f *IIR[F]) Apply(buf []F) {
	f.flushDenormal()

	i := 0
	if f.count > 0 {
		i = f.applyGlide(buf)
	}
	f.applyStatic(buf[i:])
}

// applyGlide filters until the glide ends or buf is exhausted and returns
// the number of samples processed.
func (f *IIR[F]) applyGlide(buf []F) int {
	c := f.cur
	h1, h2 := f.hist1, f.hist2

	n := min(f.count, len(buf))
	for i := range n {
		centre := buf[i] - c.A1*h1 - c.A2*h2
		buf[i] = c.B02*(centre+h2) + c.B1*h1
		h2 = h1
		h1 = centre

		c.A1 += f.incr.A1
		c.A2 += f.incr.A2
		c.B02 += f.incr.B02
		c.B1 += f.incr.B1
	}

	f.count -= n
	if f.count == 0 {
		c = f.target
		f.incr = Coefficients[F]{}
	}

	f.cur = c
	f.hist1, f.hist2 = h1, h2
	return n
}

func (f *IIR[F]) applyStatic(buf []F) {
	c := f.cur
	h1, h2 := f.hist1, f.hist2

	for i, in := range buf {
		centre := in - c.A1*h1 - c.A2*h2
		buf[i] = c.B02*(centre+h2) + c.B1*h1
		h2 = h1
		h1 = centre
	}

	f.hist1, f.hist2 = h1, h2
}
