package engine

import "fmt"

// Method selects the interpolation kernel of a voice.
// Values match the synth.interpolation setting of the reference synthesizer.
type Method int

// Interpolation methods.
const (
	// MethodNone reads the sample at the truncated index.
	MethodNone Method = 0

	// MethodLinear weights the current and next sample.
	MethodLinear Method = 1

	// Method4thOrder is a 4-tap cubic (Catmull-Rom) kernel.
	Method4thOrder Method = 4

	// Method7thOrder is a 7-tap Hann-windowed sinc kernel.
	Method7thOrder Method = 7

	// MethodDefault is used when no method is configured.
	MethodDefault = Method4thOrder
)

// Valid reports whether m is one of the known methods.
func (m Method) Valid() bool {
	switch m {
	case MethodNone, MethodLinear, Method4thOrder, Method7thOrder:
		return true
	default:
		return false
	}
}

// Taps returns the number of samples the kernel reads per output sample.
func (m Method) Taps() int {
	switch m {
	case MethodLinear:
		return linearTaps
	case Method4thOrder:
		return cubicTaps
	case Method7thOrder:
		return sincTaps
	default:
		return 1
	}
}

// String returns the method name.
func (m Method) String() string {
	switch m {
	case MethodNone:
		return "none"
	case MethodLinear:
		return "linear"
	case Method4thOrder:
		return "4th-order"
	case Method7thOrder:
		return "7th-order"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod maps a method name (as returned by String) or its numeric
// value to a Method.
func ParseMethod(s string) (Method, error) {
	switch s {
	case "none", "0":
		return MethodNone, nil
	case "linear", "1":
		return MethodLinear, nil
	case "4th-order", "4th", "cubic", "4":
		return Method4thOrder, nil
	case "7th-order", "7th", "sinc", "7":
		return Method7thOrder, nil
	default:
		return 0, fmt.Errorf("unknown interpolation method %q", s)
	}
}
