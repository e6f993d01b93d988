package rvoice

import (
	"math"

	"github.com/tphakala/go-rvoice/internal/mathutil"
	"github.com/tphakala/go-rvoice/internal/simdops"
)

// Common output rates.
const (
	// RateCD is the CD quality sample rate (Red Book standard).
	RateCD = 44100

	// RateDAT is the DAT/DVD sample rate.
	RateDAT = 48000

	// RateHiRes96 is the high-resolution 2x DAT sample rate.
	RateHiRes96 = 96000
)

// PitchToIncrement returns the phase increment that plays a table recorded
// at sampleRate with root frequency rootHz at pitchCents (absolute cents,
// 6900 = A4) on an output running at outputRate.
func PitchToIncrement(pitchCents, rootHz, sampleRate, outputRate float64) float64 {
	return mathutil.CentsToHz(pitchCents) / rootHz * sampleRate / outputRate
}

// KeyToCents converts a MIDI key number to absolute cents.
func KeyToCents(key float64) float64 {
	return mathutil.MIDIKeyToCents(key)
}

// CentsToHz converts absolute cents to Hz.
func CentsToHz(cents float64) float64 {
	return mathutil.CentsToHz(cents)
}

// PanGains returns constant-power left and right gains for pan in
// SoundFont units: -500 is hard left, 0 centre, 500 hard right. At centre
// both gains are exactly equal.
func PanGains(pan float64) (left, right float64) {
	pan = min(max(pan, -panRange), panRange)
	return panGain(-pan), panGain(pan)
}

func panGain(c float64) float64 {
	switch {
	case c <= -panRange:
		return 0
	case c >= panRange:
		return 1
	default:
		return math.Sin((c + panRange) / panSpan * math.Pi / 2)
	}
}

// CentibelsToAmplitude converts an attenuation in centibels to a linear
// amplitude (0 cB = 1, 200 cB = 0.1).
func CentibelsToAmplitude(cb float64) float64 {
	return mathutil.CentibelsToAmplitude(cb)
}

// AmplitudeToCentibels converts a linear amplitude to centibels of
// attenuation.
func AmplitudeToCentibels(amp float64) float64 {
	return mathutil.AmplitudeToCentibels(amp)
}

// InterleaveToStereo converts two mono channels to interleaved stereo.
// Output format: [L0, R0, L1, R1, L2, R2, ...]
func InterleaveToStereo[F simdops.Float](left, right []F) []F {
	n := min(len(left), len(right))
	out := make([]F, n*stereoChannels)
	simdops.For[F]().Interleave2(out, left[:n], right[:n])
	return out
}

// DownmixToMono averages interleaved frames of the given channel count
// into one channel, as sample loaders do for multi-channel sources.
func DownmixToMono[F simdops.Float](interleaved []F, channels int) []F {
	if channels <= 1 {
		return append([]F(nil), interleaved...)
	}
	frames := len(interleaved) / channels
	out := make([]F, frames)
	scale := 1 / F(channels)
	for i := range frames {
		var sum F
		for _, v := range interleaved[i*channels : (i+1)*channels] {
			sum += v
		}
		out[i] = sum * scale
	}
	return out
}
