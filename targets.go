package rvoice

import (
	"github.com/tphakala/go-rvoice/internal/filter"
	"github.com/tphakala/go-rvoice/internal/simdops"
)

// FilterCoefficients are the coefficients of the resonant low-pass section.
type FilterCoefficients[F simdops.Float] = filter.Coefficients[F]

// DesignLowPass computes resonant low-pass coefficients for a cutoff in Hz
// and a resonance in dB. enabled is false when the cutoff is wide open.
func DesignLowPass[F simdops.Float](cutoffHz, qDB, outputRate float64) (c FilterCoefficients[F], enabled bool) {
	return filter.DesignLowPass[F](cutoffHz, qDB, outputRate)
}

// Targets is one block's worth of parameters from the control layer.
// A Targets value handed to Voice.Commit is applied at the start of the
// next Write and must not be modified afterwards.
type Targets[F simdops.Float] struct {
	// PhaseIncr is the playback increment in table samples per output
	// sample. Zero keeps the increment derived from the voice pitch.
	PhaseIncr float64

	// Amp is the amplitude to reach at the end of the block. A voice that
	// gets no new targets for the following block holds at Amp.
	Amp F

	// AmpIncr, when HasAmpIncr is set, is used as the per-sample amplitude
	// increment instead of deriving it from Amp.
	AmpIncr    F
	HasAmpIncr bool

	// SetFilter applies FilterEnabled, Filter and FilterSamples.
	SetFilter bool

	// FilterEnabled turns the filter stage on or off.
	FilterEnabled bool

	// Filter is the target filter response, reached after FilterSamples
	// samples (0 jumps).
	Filter        FilterCoefficients[F]
	FilterSamples int

	// SetBusAmps applies BusAmps to the mapping table.
	SetBusAmps bool
	BusAmps    [MaxBuses]F

	// SetPan applies Pan in SoundFont units (-500..500): the left and
	// right bus amps become the pan law gains times the synth gain.
	// Applied after BusAmps.
	SetPan bool
	Pan    F

	// Released marks the note as released from this block on.
	Released bool
}
