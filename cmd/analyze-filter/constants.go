package main

const (
	// Default analysis parameters.
	defaultRate    = 44100.0
	defaultCutoffs = "200,1000,5000,12000"
	defaultQs      = "0,6,12,24"
	defaultFFTSize = 4096

	// probeOctaves is the number of octave-spaced probe points printed
	// below and above each cutoff.
	probeOctaves = 2

	// nyquistRatio places the "near Nyquist" probe relative to the rate.
	nyquistRatio = 0.49

	// dcTolerance flags interpolation rows whose DC gain drifts from 1.
	dcTolerance = 1e-9
)
