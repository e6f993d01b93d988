package rvoice

import (
	"github.com/tphakala/go-rvoice/internal/bus"
	"github.com/tphakala/go-rvoice/internal/sample"
)

// Block and bus constants
const (
	// DefaultBlockSize is the number of samples rendered per Write.
	DefaultBlockSize = 64

	// maxBlockSize bounds Config.BlockSize.
	maxBlockSize = 8192

	// MaxBuses is the number of mapping entries per voice.
	MaxBuses = bus.MaxBuses

	// GuardSamples is the number of samples a table must carry past its end.
	GuardSamples = sample.GuardSamples

	// stereoChannels is the number of primary output buses.
	stereoChannels = 2

	// defaultAuxBuses gives a reverb and a chorus send.
	defaultAuxBuses = 2

	// maxAuxBuses bounds Config.AuxBuses.
	maxAuxBuses = 16
)

// Rate constants
const (
	// DefaultOutputRate is the output sample rate used by DefaultConfig.
	DefaultOutputRate = 44100.0

	minOutputRate = 8000.0
	maxOutputRate = 384000.0
)

// Level constants
const (
	// NoiseFloor is the output level, relative to full scale, below which a
	// voice is inaudible and may be retired.
	NoiseFloor = 2e-7

	// defaultSynthGain leaves bus amps and noise floors unscaled.
	defaultSynthGain = 1.0
)

// Pan law constants
const (
	// panRange is the half-width of the SoundFont pan range in 0.1% units.
	panRange = 500.0

	// panSpan is the full pan range.
	panSpan = 2 * panRange
)
