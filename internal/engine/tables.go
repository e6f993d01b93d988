package engine

import (
	"sync"

	"github.com/tphakala/go-rvoice/internal/mathutil"
	"github.com/tphakala/go-rvoice/internal/phase"
	"github.com/tphakala/go-rvoice/internal/simdops"
)

// coeffTables holds one coefficient row per quantized fractional phase for
// each kernel. Built once per precision and never written afterwards.
type coeffTables[F simdops.Float] struct {
	linear [phase.InterpRows][linearTaps]F
	cubic  [phase.InterpRows][cubicTaps]F
	sinc   [phase.InterpRows][sincTaps]F
}

var (
	tables32 *coeffTables[float32]
	tables64 *coeffTables[float64]
	once32   sync.Once
	once64   sync.Once
)

// tablesFor returns the shared tables for F, building them on first use.
func tablesFor[F simdops.Float]() *coeffTables[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		once32.Do(func() { tables32 = buildTables[float32]() })
		t, ok := any(tables32).(*coeffTables[F])
		if !ok {
			panic("engine: type assertion failed for float32 tables")
		}
		return t
	case float64:
		once64.Do(func() { tables64 = buildTables[float64]() })
		t, ok := any(tables64).(*coeffTables[F])
		if !ok {
			panic("engine: type assertion failed for float64 tables")
		}
		return t
	default:
		panic("engine: unsupported float type")
	}
}

func buildTables[F simdops.Float]() *coeffTables[F] {
	t := &coeffTables[F]{}
	for row := range phase.InterpRows {
		fillRow(t.linear[row][:], CoefficientRow(MethodLinear, row))
		fillRow(t.cubic[row][:], CoefficientRow(Method4thOrder, row))
		fillRow(t.sinc[row][:], CoefficientRow(Method7thOrder, row))
	}
	return t
}

func fillRow[F simdops.Float](dst []F, src []float64) {
	for i, v := range src {
		dst[i] = F(v)
	}
}

// CoefficientRow computes the float64 weights of kernel m at table row row.
// The fractional position is row/InterpRows. Rows are normalized to unity
// DC gain so a constant table reproduces its constant through every row.
func CoefficientRow(m Method, row int) []float64 {
	x := float64(row) / phase.InterpRows

	var c []float64
	switch m {
	case MethodLinear:
		c = []float64{1 - x, x}
	case Method4thOrder:
		c = []float64{
			x * (-cubicHalf + x*(cubicUnityCoef-cubicHalf*x)),
			cubicUnityCoef + x*x*(cubicOneHalf*x-cubicTwoHalf),
			x * (cubicHalf + x*(cubicTwo-cubicOneHalf*x)),
			cubicHalf * x * x * (x - 1),
		}
	case Method7thOrder:
		c = make([]float64, sincTaps)
		for k := range c {
			// Distance from the interpolated point to tap k.
			d := float64(k-sincBehind) - x
			c[k] = mathutil.WindowedSinc(d, sincWindowWidth)
		}
	default:
		return []float64{1}
	}

	if sum := simdops.Float64Ops().Sum(c); sum != 0 && sum != 1 {
		for i := range c {
			c[i] /= sum
		}
	}
	return c
}
