// Package rvoice provides the per-voice render core of a sample-based
// synthesizer in pure Go.
//
// For each sounding note a [Voice] reconstructs the waveform of a stored
// sample table at an arbitrary pitch, applies a resonant low-pass filter and
// a linear amplitude ramp, and accumulates the result into a stereo pair and
// any number of effect sends. The design follows the FluidSynth rvoice core.
//
// # Features
//
//   - Four interpolation qualities: none, linear, 4th-order cubic and
//     7th-order windowed sinc, with an exact copy path for unmodified pitch
//   - 32.32 fixed-point playback position, drift-free over arbitrarily long
//     sustained notes
//   - SoundFont loop modes with seamless wrap
//   - Resonant Direct-Form-II low-pass with click-free coefficient glides
//     and denormal protection
//   - Bus mapping table with per-bus gain and constant-power panning
//   - float32 or float64 precision selected by type parameter
//   - Optional SIMD acceleration (AVX2/NEON) via github.com/tphakala/simd
//   - Allocation-free, lock-free render path
//
// # Quick Start
//
//	cfg := rvoice.DefaultConfig()
//	table, err := rvoice.NewTable(rvoice.PadTable(samples))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	mixer, _ := rvoice.NewMixer[float32](cfg)
//	v, _ := rvoice.NewVoice[float32](cfg, table)
//	v.SetLoopMode(rvoice.LoopUntilRelease)
//	v.SetPitch(rvoice.KeyToCents(64))
//	v.SetPan(0)
//	_ = mixer.Add(v)
//
//	out := make([]float32, 2*cfg.BlockSize)
//	targets := &rvoice.Targets[float32]{Amp: 0.5}
//	for block := 0; mixer.Voices() > 0; block++ {
//	    if block == noteOffBlock {
//	        targets = &rvoice.Targets[float32]{Amp: 0, Released: true}
//	    }
//	    v.Commit(targets)
//	    mixer.RenderBlock()
//	    mixer.Interleave(out)
//	    writeOutput(out)
//	}
//
// # Block Model
//
// Everything happens in blocks of [Config.BlockSize] samples (64 by
// default). Once per block the control layer, which owns envelopes, LFOs
// and modulators, computes a [Targets] value per voice and hands it over
// with [Voice.Commit]. The voice applies it atomically at the start of its
// next [Voice.Write], so parameters never change mid-block.
//
// Output samples are in 16-bit units: a table holding 1000 renders 1000 at
// unity amplitude. 24-bit tables add their low byte as a fraction.
//
// # Thread Safety
//
// A [Voice] is owned by one render goroutine. [Voice.Commit] is the only
// method safe to call from other goroutines. A [Mixer] in parallel mode
// renders voices on a worker pool but accumulates into its buses from a
// single goroutine.
package rvoice
