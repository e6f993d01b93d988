// Package mathutil provides the mathematical building blocks for the voice
// DSP core: windowed sinc kernels for the interpolation tables and unit
// conversions used when deriving per-block targets.
package mathutil

import (
	"math"
)

// Sinc computes the normalized sinc function sin(πx)/(πx).
// Sinc(0) is 1 and Sinc(n) is exactly 0 for every non-zero integer n.
func Sinc(x float64) float64 {
	if math.Abs(x) < sincZeroThreshold {
		return 1.0
	}
	if x == math.Trunc(x) {
		return 0
	}
	px := math.Pi * x
	return math.Sin(px) / px
}

// RaisedCosine evaluates a Hann (raised-cosine) window centered at 0 with
// total width `width`, at offset x:
//
//	w(x) = 0.5 * (1 + cos(2πx/width))
//
// The window is 1 at x = 0 and falls to 0 at |x| = width/2.
// Values outside the window are clamped to 0.
func RaisedCosine(x, width float64) float64 {
	if width <= 0 || math.Abs(x) > width*hannHalf {
		return 0
	}
	return hannHalf * (1.0 + math.Cos(2.0*math.Pi*x/width))
}

// WindowedSinc returns Sinc(x) tapered by a raised-cosine window of the
// given width. It is the kernel of the 7-tap interpolation table.
func WindowedSinc(x, width float64) float64 {
	return Sinc(x) * RaisedCosine(x, width)
}
