package engine

// Kernel widths
const (
	// linearTaps is the number of samples weighted by the linear kernel.
	linearTaps = 2

	// cubicTaps is the number of samples weighted by the 4th-order kernel.
	cubicTaps = 4

	// cubicBehind is how many taps the 4th-order kernel reads before the
	// current index (taps index-1 .. index+2).
	cubicBehind = 1

	// sincTaps is the number of samples weighted by the 7th-order kernel.
	sincTaps = 7

	// sincBehind is how many taps the 7th-order kernel reads before the
	// current index (taps index-3 .. index+3).
	sincBehind = 3
)

// Catmull-Rom polynomial coefficients for the 4th-order table:
//
//	c0 = x*(-0.5 + x*(1 - 0.5x))
//	c1 = 1 + x*x*(1.5x - 2.5)
//	c2 = x*(0.5 + x*(2 - 1.5x))
//	c3 = 0.5*x*x*(x - 1)
const (
	cubicHalf      = 0.5
	cubicOneHalf   = 1.5
	cubicTwoHalf   = 2.5
	cubicTwo       = 2.0
	cubicUnityCoef = 1.0
)

// sincWindowWidth is the raised-cosine window width of the 7th-order kernel,
// equal to its tap count so the window reaches zero just past the outer taps.
const sincWindowWidth = float64(sincTaps)
