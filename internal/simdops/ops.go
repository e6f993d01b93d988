// Package simdops provides generic SIMD operations for float32 and float64 types.
// This lets the voice render path run at either precision from a single codebase.
//
// With Profile-Guided Optimization (Go 1.22+), function pointer calls in hot paths
// can be devirtualized and inlined, achieving near-zero overhead.
package simdops

import (
	"github.com/tphakala/simd/f32"
	"github.com/tphakala/simd/f64"
)

// Float is the type constraint for supported floating-point types.
type Float interface {
	float32 | float64
}

// Ops provides SIMD-accelerated operations for type F.
// Function pointers allow type-safe generic code while delegating
// to optimized type-specific implementations.
//
// None of the operations allocate; all slices must be preallocated by the caller.
type Ops[F Float] struct {
	// Scale multiplies each element by scalar s: dst[i] = a[i] * s
	Scale func(dst, a []F, s F)

	// Add sums two slices element-wise: dst[i] = a[i] + b[i]
	// dst may alias a or b, which is how bus accumulation uses it.
	Add func(dst, a, b []F)

	// Sum returns the sum of all elements.
	Sum func(a []F) F

	// Interleave2 interleaves two slices: dst[0]=a[0], dst[1]=b[0], dst[2]=a[1], ...
	Interleave2 func(dst, a, b []F)
}

// Pre-instantiated operations for each float type.
// These are package-level variables to avoid repeated allocation.
var (
	ops32 = Ops[float32]{
		Scale:       f32.Scale,
		Add:         f32.Add,
		Sum:         f32.Sum,
		Interleave2: f32.Interleave2,
	}
	ops64 = Ops[float64]{
		Scale:       f64.Scale,
		Add:         f64.Add,
		Sum:         f64.Sum,
		Interleave2: f64.Interleave2,
	}
)

// For returns the Ops instance for type F.
// The type switch happens at construction time, not in hot paths.
func For[F Float]() *Ops[F] {
	var zero F
	switch any(zero).(type) {
	case float32:
		ops, ok := any(&ops32).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float32")
		}
		return ops
	case float64:
		ops, ok := any(&ops64).(*Ops[F])
		if !ok {
			panic("simdops: type assertion failed for float64")
		}
		return ops
	default:
		panic("simdops: unsupported float type")
	}
}

// AddScaled accumulates s*src into dst using scratch for the product:
//
//	dst[i] += s * src[i]
//
// scratch must be at least len(src) long. All three slices are trimmed to
// len(src).
func (o *Ops[F]) AddScaled(dst, src, scratch []F, s F) {
	n := len(src)
	tmp := scratch[:n]
	o.Scale(tmp, src, s)
	o.Add(dst[:n], dst[:n], tmp)
}

// Float32Ops returns the float32 SIMD operations.
// Convenience function for non-generic code.
func Float32Ops() *Ops[float32] {
	return &ops32
}

// Float64Ops returns the float64 SIMD operations.
// Convenience function for non-generic code.
func Float64Ops() *Ops[float64] {
	return &ops64
}
