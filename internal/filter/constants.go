package filter

// Denormal flush thresholds. hist1 is zeroed below these magnitudes before
// each block; both are far below the quietest audible 24-bit sample.
const (
	denormalThreshold64 = 1e-20
	denormalThreshold32 = 0x1p-111
)

// Low-pass design limits (SoundFont 2.04 initialFilterFc / initialFilterQ).
const (
	// maxCutoffRatio is the cutoff, relative to the output rate, above which
	// the filter is considered wide open and disabled.
	maxCutoffRatio = 0.45

	// minCutoffHz is the lowest cutoff the design accepts.
	minCutoffHz = 5.0

	// maxQDB is the highest resonance the design accepts.
	maxQDB = 96.0

	// qLinHalf is the 2 in alpha = sin(ω)/(2·q).
	qLinHalf = 2.0

	// b02Ratio relates the symmetric feed-forward taps to b1: b0 = b2 = b1/2.
	b02Ratio = 0.5
)

// fftHermitianDivisor: a real FFT of size N has N/2+1 unique bins.
const fftHermitianDivisor = 2
