// Package testutil provides reusable test helper functions for voice DSP tests.
//
// Every helper reports the first offending element and forwards the
// caller's msgAndArgs to testify.
package testutil

import (
	"fmt"
	"math"

	"github.com/stretchr/testify/assert"
)

// Default tolerances for various test scenarios.
const (
	DefaultTolerance = 1e-10
	Float32Tolerance = 1e-4
	DBTolerance      = 0.01
)

// T is the subset of *testing.T the helpers use.
type T interface {
	assert.TestingT
	Helper()
}

// Float mirrors simdops.Float so helpers accept either render precision.
type Float interface {
	float32 | float64
}

// AssertNoNaNOrInf fails on the first NaN or infinite element.
func AssertNoNaNOrInf[F Float](t T, s []F, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return assert.Fail(t, fmt.Sprintf("s[%d] is %v", i, f), msgAndArgs...)
		}
	}
	return true
}

// AssertAllInRange fails on the first element outside [minVal, maxVal].
func AssertAllInRange[F Float](t T, s []F, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if f := float64(v); f < minVal || f > maxVal {
			return assert.Fail(t,
				fmt.Sprintf("s[%d]=%g outside [%g, %g]", i, f, minVal, maxVal), msgAndArgs...)
		}
	}
	return true
}

// AssertAllInDelta checks element-wise closeness of two equal-length slices.
func AssertAllInDelta[F Float](t T, expected, actual []F, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if !assert.Len(t, actual, len(expected), msgAndArgs...) {
		return false
	}
	for i := range expected {
		want, got := float64(expected[i]), float64(actual[i])
		if math.Abs(want-got) > tolerance {
			return assert.Fail(t,
				fmt.Sprintf("element %d: want %g, got %g (tolerance %g)", i, want, got, tolerance),
				msgAndArgs...)
		}
	}
	return true
}

// AssertConstant checks that every element is want within tolerance.
func AssertConstant[F Float](t T, s []F, want, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	for i, v := range s {
		if got := float64(v); math.IsNaN(got) || math.Abs(got-want) > tolerance {
			return assert.Fail(t,
				fmt.Sprintf("s[%d]=%g, want %g (tolerance %g)", i, got, want, tolerance),
				msgAndArgs...)
		}
	}
	return true
}

// AssertDCGain checks that the coefficients sum to expectedGain.
func AssertDCGain(t T, coeffs []float64, expectedGain, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	var sum float64
	for _, c := range coeffs {
		sum += c
	}
	if math.Abs(sum-expectedGain) > tolerance {
		return assert.Fail(t, fmt.Sprintf("DC gain %g, want %g", sum, expectedGain), msgAndArgs...)
	}
	return true
}

// AssertMonotonic checks that s never decreases.
func AssertMonotonic[F Float](t T, s []F, msgAndArgs ...any) bool {
	t.Helper()
	for i := 1; i < len(s); i++ {
		if s[i] < s[i-1] {
			return assert.Fail(t,
				fmt.Sprintf("s[%d]=%g < s[%d]=%g", i, float64(s[i]), i-1, float64(s[i-1])),
				msgAndArgs...)
		}
	}
	return true
}

// AssertRelativeError checks |actual-expected|/|expected| <= tolerance.
// A zero expected value falls back to an absolute check.
func AssertRelativeError(t T, expected, actual, tolerance float64, msgAndArgs ...any) bool {
	t.Helper()
	if expected == 0 {
		return assert.InDelta(t, expected, actual, tolerance, msgAndArgs...)
	}
	if rel := math.Abs(actual-expected) / math.Abs(expected); rel > tolerance {
		return assert.Fail(t,
			fmt.Sprintf("relative error %e exceeds %e (expected %g, actual %g)", rel, tolerance, expected, actual),
			msgAndArgs...)
	}
	return true
}

// AssertInRange checks that value lies in [minVal, maxVal].
func AssertInRange(t T, value, minVal, maxVal float64, msgAndArgs ...any) bool {
	t.Helper()
	if value < minVal || value > maxVal {
		return assert.Fail(t, fmt.Sprintf("%g outside [%g, %g]", value, minVal, maxVal), msgAndArgs...)
	}
	return true
}
