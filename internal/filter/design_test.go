package filter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tphakala/go-rvoice/internal/mathutil"
	"github.com/tphakala/go-rvoice/internal/testutil"
)

const testRate = 44100.0

func TestDesignLowPass_Disabled(t *testing.T) {
	_, enabled := DesignLowPass[float64](0.45*testRate, 0, testRate)
	assert.False(t, enabled)

	_, enabled = DesignLowPass[float64](20000, 0, testRate)
	assert.False(t, enabled)

	_, enabled = DesignLowPass[float64](0.44*testRate, 0, testRate)
	assert.True(t, enabled)
}

func TestDesignLowPass_DCGain(t *testing.T) {
	for _, q := range []float64{0, 3, 12, 24} {
		c, enabled := DesignLowPass[float64](1000, q, testRate)
		require.True(t, enabled)

		want := 1 / math.Sqrt(mathutil.DecibelsToLinear(q))
		assert.InDelta(t, want, DCGain(c), 1e-12, "q=%v", q)
	}
}

func TestDesignLowPass_NyquistZero(t *testing.T) {
	c, _ := DesignLowPass[float64](3000, 6, testRate)
	// H(-1) numerator is 2·B02 - B1.
	assert.InDelta(t, 0, 2*c.B02-c.B1, 1e-15)
}

func TestDesignLowPass_Stable(t *testing.T) {
	for _, fc := range []float64{minCutoffHz, 100, 1000, 8000, 19000} {
		for _, q := range []float64{0, 20, maxQDB} {
			c, _ := DesignLowPass[float64](fc, q, testRate)
			// Poles inside the unit circle: |A2| < 1 and |A1| < 1 + A2.
			assert.Less(t, math.Abs(c.A2), 1.0, "fc=%v q=%v", fc, q)
			assert.Less(t, math.Abs(c.A1), 1+c.A2, "fc=%v q=%v", fc, q)
		}
	}
}

func TestMagnitudeResponse_LowPass(t *testing.T) {
	const n = 8192
	c, _ := DesignLowPass[float64](1000, 0, testRate)

	r, err := MagnitudeResponse(c, n, testRate)
	require.NoError(t, err)
	require.Len(t, r.Magnitude, n/2+1)
	testutil.AssertNoNaNOrInf(t, r.Magnitude)

	assert.InDelta(t, 1.0, r.Magnitude[0], 1e-6)
	assert.InDelta(t, testRate/2, r.Freq[len(r.Freq)-1], 1e-9)

	// Two poles roll off 12 dB per octave; a decade up is well below -35 dB.
	stop := mathutil.LinearToDecibels(r.At(10000))
	assert.Less(t, stop, -35.0)
}

func TestMagnitudeResponse_ResonantPeak(t *testing.T) {
	c, _ := DesignLowPass[float64](2000, 12, testRate)
	r, err := MagnitudeResponse(c, 8192, testRate)
	require.NoError(t, err)

	peak, hz := r.Peak()
	dc := r.Magnitude[0]
	assert.Greater(t, mathutil.LinearToDecibels(peak/dc), 10.0)
	testutil.AssertInRange(t, hz, 1500, 2500)
}

func TestMagnitudeResponse_Identity(t *testing.T) {
	r, err := MagnitudeResponse(Identity[float32](), 256, testRate)
	require.NoError(t, err)
	testutil.AssertAllInDelta(t, testutil.Constant[float64](len(r.Magnitude), 1), r.Magnitude, 1e-6)
}

func TestMagnitudeResponse_InvalidSize(t *testing.T) {
	_, err := MagnitudeResponse(Identity[float64](), 7, testRate)
	require.Error(t, err)

	_, err = MagnitudeResponse(Identity[float64](), 0, testRate)
	require.Error(t, err)
}
