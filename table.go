package rvoice

import (
	"github.com/tphakala/go-rvoice/internal/phase"
	"github.com/tphakala/go-rvoice/internal/sample"
)

// Table is an immutable sample table referenced by voices. See NewTable.
type Table = sample.Table

// NewTable wraps 16-bit data with the loop spanning the whole playable
// range. data must end with GuardSamples samples past the last playable
// one (see PadTable).
func NewTable(data []int16) (*Table, error) {
	return sample.New(data)
}

// PadTable returns a copy of data followed by GuardSamples zero samples.
func PadTable(data []int16) []int16 {
	return sample.Pad(data, GuardSamples)
}

// PadLSB returns a copy of lsb followed by GuardSamples zero bytes.
func PadLSB(lsb []byte) []byte {
	return sample.PadLSB(lsb, GuardSamples)
}

// LoopMode selects how playback treats the loop region.
type LoopMode = phase.LoopMode

// Loop modes; values match the SoundFont sampleModes generator.
const (
	Unlooped          = phase.Unlooped
	LoopDuringRelease = phase.LoopDuringRelease
	LoopDisabled      = phase.Disabled
	LoopUntilRelease  = phase.LoopUntilRelease
)

// Bounds are the playable and loop indices of a voice.
type Bounds = phase.Bounds
