package testutil

import "math"

// Table signal builders. Each returns exactly n values; callers append
// guard samples themselves.

// ConstantInt16 returns n copies of k.
func ConstantInt16(n int, k int16) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = k
	}
	return s
}

// RampInt16 returns start, start+step, ... (n values).
func RampInt16(n int, start, step int16) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = start + int16(i)*step
	}
	return s
}

// SineInt16 returns n samples of a sine with the given period in samples
// and peak amplitude.
func SineInt16(n int, period, peak float64) []int16 {
	s := make([]int16, n)
	for i := range s {
		s[i] = int16(math.Round(peak * math.Sin(2*math.Pi*float64(i)/period)))
	}
	return s
}

// Constant returns n copies of v as F.
func Constant[F Float](n int, v F) []F {
	s := make([]F, n)
	for i := range s {
		s[i] = v
	}
	return s
}
