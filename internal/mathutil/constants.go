package mathutil

// Sinc and window constants
const (
	// sincZeroThreshold is the distance below which sinc(x) is taken as 1,
	// avoiding the 0/0 limit.
	sincZeroThreshold = 1e-6

	// hannHalf is the 0.5 factor in the raised-cosine window 0.5*(1+cos(...)).
	hannHalf = 0.5
)

// Pitch conversion constants (absolute cents, 6900 = A4 = 440 Hz)
const (
	centsPerOctave   = 1200.0
	centsA4          = 6900.0
	frequencyA4      = 440.0
	centsPerSemitone = 100.0
)

// Level conversion constants
const (
	// centibelsPerDecade is the number of centibels per factor-of-ten in amplitude
	// (20 dB per decade, 10 cB per dB).
	centibelsPerDecade = 200.0

	// decibelsPerDecade is the number of decibels per factor-of-ten in amplitude.
	decibelsPerDecade = 20.0
)
