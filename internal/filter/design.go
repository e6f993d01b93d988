package filter

import (
	"math"

	"github.com/tphakala/go-rvoice/internal/mathutil"
	"github.com/tphakala/go-rvoice/internal/simdops"
)

// DesignLowPass computes the SoundFont resonant low-pass for a cutoff in Hz
// and a resonance in dB above DC, at the given output rate.
//
// The section is the RBJ cookbook low-pass, with the feed-forward part
// scaled by 1/sqrt(q) so the resonant peak stays bounded as q grows.
// enabled is false when the cutoff is at or above 0.45·rate: such a
// filter is wide open and the voice skips the stage entirely.
func DesignLowPass[F simdops.Float](cutoffHz, qDB, outputRate float64) (c Coefficients[F], enabled bool) {
	if cutoffHz >= maxCutoffRatio*outputRate {
		return Identity[F](), false
	}
	cutoffHz = max(cutoffHz, minCutoffHz)
	qDB = min(max(qDB, 0), maxQDB)

	qLin := mathutil.DecibelsToLinear(qDB)
	gain := 1 / math.Sqrt(qLin)

	omega := 2 * math.Pi * cutoffHz / outputRate
	sinO, cosO := math.Sincos(omega)
	alpha := sinO / (qLinHalf * qLin)
	a0Inv := 1 / (1 + alpha)

	b1 := (1 - cosO) * a0Inv * gain
	return Coefficients[F]{
		A1:  F(-2 * cosO * a0Inv),
		A2:  F((1 - alpha) * a0Inv),
		B02: F(b1 * b02Ratio),
		B1:  F(b1),
	}, true
}

// DCGain returns the analytic gain of c at 0 Hz.
func DCGain[F simdops.Float](c Coefficients[F]) float64 {
	num := 2*float64(c.B02) + float64(c.B1)
	den := 1 + float64(c.A1) + float64(c.A2)
	return num / den
}
