// Command analyze-filter prints the response of the voice low-pass filter
// and the DC behaviour of the interpolation kernels.
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"github.com/tphakala/go-rvoice/internal/engine"
	"github.com/tphakala/go-rvoice/internal/filter"
	"github.com/tphakala/go-rvoice/internal/mathutil"
	"github.com/tphakala/go-rvoice/internal/phase"
)

func main() {
	rate := flag.Float64("rate", defaultRate, "Output sample rate in Hz")
	cutoffs := flag.String("cutoffs", defaultCutoffs, "Comma-separated cutoff frequencies in Hz")
	qs := flag.String("q", defaultQs, "Comma-separated resonance values in dB")
	fftSize := flag.Int("fft", defaultFFTSize, "FFT size for the magnitude response")
	kernels := flag.Bool("kernels", true, "Also analyze the interpolation kernels")
	flag.Parse()

	fcs, err := parseList(*cutoffs)
	if err != nil {
		log.Fatalf("Invalid -cutoffs: %v", err)
	}
	qdbs, err := parseList(*qs)
	if err != nil {
		log.Fatalf("Invalid -q: %v", err)
	}

	fmt.Println("=== Low-pass filter response ===")
	fmt.Printf("Rate: %.0f Hz, FFT size: %d\n\n", *rate, *fftSize)
	for _, fc := range fcs {
		for _, q := range qdbs {
			if err := analyzeFilter(fc, q, *rate, *fftSize); err != nil {
				log.Fatalf("Analysis failed: %v", err)
			}
		}
	}

	if *kernels {
		fmt.Println("=== Interpolation kernels ===")
		analyzeKernels()
	}
}

func analyzeFilter(fc, q, rate float64, n int) error {
	c, enabled := filter.DesignLowPass[float64](fc, q, rate)
	fmt.Printf("cutoff %.0f Hz, q %.1f dB\n", fc, q)
	if !enabled {
		fmt.Println("  disabled (cutoff above the pass-through limit)")
		fmt.Println()
		return nil
	}

	fmt.Printf("  a1=%+.9f a2=%+.9f b02=%+.9f b1=%+.9f\n", c.A1, c.A2, c.B02, c.B1)
	fmt.Printf("  DC gain: %.6f (%.2f dB)\n", filter.DCGain(c), mathutil.LinearToDecibels(filter.DCGain(c)))

	r, err := filter.MagnitudeResponse(c, n, rate)
	if err != nil {
		return err
	}
	peak, peakHz := r.Peak()
	fmt.Printf("  peak:    %.6f (%.2f dB) at %.0f Hz\n", peak, mathutil.LinearToDecibels(peak), peakHz)

	for k := -probeOctaves; k <= probeOctaves; k++ {
		hz := fc * math.Pow(2, float64(k))
		if hz >= rate/2 {
			continue
		}
		fmt.Printf("  %8.0f Hz: %7.2f dB\n", hz, mathutil.LinearToDecibels(r.At(hz)))
	}
	fmt.Printf("  %8.0f Hz: %7.2f dB\n", nyquistRatio*rate, mathutil.LinearToDecibels(r.At(nyquistRatio*rate)))
	fmt.Println()
	return nil
}

func analyzeKernels() {
	methods := []engine.Method{engine.MethodLinear, engine.Method4thOrder, engine.Method7thOrder}
	for _, m := range methods {
		minDC, maxDC := math.Inf(1), math.Inf(-1)
		var drifting int
		for row := range phase.InterpRows {
			var dc float64
			for _, v := range engine.CoefficientRow(m, row) {
				dc += v
			}
			minDC = min(minDC, dc)
			maxDC = max(maxDC, dc)
			if math.Abs(dc-1) > dcTolerance {
				drifting++
			}
		}

		// Response at Nyquist of the half-sample row: the alternating sum.
		var nyq float64
		for i, v := range engine.CoefficientRow(m, phase.InterpRows/2) {
			if i%2 == 0 {
				nyq += v
			} else {
				nyq -= v
			}
		}

		fmt.Printf("%-10s taps=%d DC gain [%.12f, %.12f] rows off unity: %d, Nyquist at x=0.5: %.6f\n",
			m, m.Taps(), minDC, maxDC, drifting, math.Abs(nyq))
	}
}

func parseList(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
