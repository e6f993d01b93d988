package filter

import (
	"fmt"
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/tphakala/go-rvoice/internal/simdops"
)

// Response is the sampled magnitude response of a filter.
type Response struct {
	// Magnitude holds |H| at Freq[i], linear.
	Magnitude []float64

	// Freq holds the bin centre frequencies in Hz, 0 to rate/2.
	Freq []float64
}

// ImpulseResponse runs a unit impulse through a fresh filter with
// coefficients c and returns the first n output samples.
func ImpulseResponse[F simdops.Float](c Coefficients[F], n int) []F {
	buf := make([]F, n)
	if n == 0 {
		return buf
	}
	buf[0] = 1
	New(c).Apply(buf)
	return buf
}

// MagnitudeResponse computes |H| of c on an n-point FFT of its impulse
// response at the given sample rate. n must be even and positive.
func MagnitudeResponse[F simdops.Float](c Coefficients[F], n int, rate float64) (*Response, error) {
	if n <= 0 || n%fftHermitianDivisor != 0 {
		return nil, fmt.Errorf("fft size must be even and positive, got %d", n)
	}

	impulse := ImpulseResponse(c, n)
	seq := make([]float64, n)
	for i, v := range impulse {
		seq[i] = float64(v)
	}

	fft := fourier.NewFFT(n)
	coeffs := fft.Coefficients(nil, seq)

	r := &Response{
		Magnitude: make([]float64, len(coeffs)),
		Freq:      make([]float64, len(coeffs)),
	}
	for i, v := range coeffs {
		r.Magnitude[i] = cmplx.Abs(v)
		r.Freq[i] = fft.Freq(i) * rate
	}
	return r, nil
}

// At returns the magnitude of the bin closest to hz.
func (r *Response) At(hz float64) float64 {
	if len(r.Freq) < 2 {
		return 0
	}
	step := r.Freq[1] - r.Freq[0]
	i := int(hz/step + 0.5)
	i = min(max(i, 0), len(r.Magnitude)-1)
	return r.Magnitude[i]
}

// Peak returns the largest magnitude and its frequency.
func (r *Response) Peak() (mag, hz float64) {
	for i, m := range r.Magnitude {
		if m > mag {
			mag, hz = m, r.Freq[i]
		}
	}
	return mag, hz
}
