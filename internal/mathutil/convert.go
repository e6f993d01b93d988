package mathutil

import "math"

// CentsToHz converts absolute cents to a frequency in Hz.
// 6900 cents is A4 (440 Hz); each 1200 cents doubles the frequency.
func CentsToHz(cents float64) float64 {
	return frequencyA4 * math.Exp2((cents-centsA4)/centsPerOctave)
}

// MIDIKeyToCents converts a MIDI key number to absolute cents.
func MIDIKeyToCents(key float64) float64 {
	return key * centsPerSemitone
}

// CentibelsToAmplitude converts an attenuation in centibels to a linear amplitude.
// 0 cB is unity, 200 cB is 0.1.
func CentibelsToAmplitude(cb float64) float64 {
	return math.Pow(10, -cb/centibelsPerDecade)
}

// AmplitudeToCentibels converts a linear amplitude to an attenuation in centibels.
// Non-positive amplitudes return +Inf.
func AmplitudeToCentibels(amp float64) float64 {
	if amp <= 0 {
		return math.Inf(1)
	}
	return -centibelsPerDecade * math.Log10(amp)
}

// DecibelsToLinear converts a gain in dB to a linear factor.
func DecibelsToLinear(db float64) float64 {
	return math.Pow(10, db/decibelsPerDecade)
}

// LinearToDecibels converts a linear magnitude to dB.
// Non-positive magnitudes return -Inf.
func LinearToDecibels(v float64) float64 {
	if v <= 0 {
		return math.Inf(-1)
	}
	return decibelsPerDecade * math.Log10(v)
}
