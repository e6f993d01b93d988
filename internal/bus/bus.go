// Package bus distributes a voice's rendered block to destination buses.
//
// A voice owns a small mapping table of (destination index, amplitude)
// entries. At mixdown the caller supplies the destination buffers; each
// entry accumulates amp·block into its destination. Accumulation runs on
// the simdops vector kernels and never allocates.
package bus

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-rvoice/internal/simdops"
)

// MaxBuses is the number of mapping entries per voice.
const MaxBuses = 4

// Canonical entry layout used by the stereo helpers.
const (
	Left = iota
	Right
	Reverb
	Chorus
)

// ErrInvalidBus indicates a mapping entry or destination index out of range.
var ErrInvalidBus = errors.New("invalid bus")

// Entry routes a voice to one destination buffer.
type Entry[F simdops.Float] struct {
	// Mapping is an index into the destination slice given to Mix.
	Mapping int

	// Amp is the linear gain; 0 disables the entry.
	Amp F
}

// Buffers is a voice's bus mapping table.
type Buffers[F simdops.Float] struct {
	entries [MaxBuses]Entry[F]
	count   int
	ops     *simdops.Ops[F]
}

// NewBuffers returns a table with the canonical layout: entry i maps to
// destination i, all amplitudes zero.
func NewBuffers[F simdops.Float]() *Buffers[F] {
	b := &Buffers[F]{ops: simdops.For[F]()}
	b.Reset()
	return b
}

// Reset restores the canonical layout with zero amplitudes.
func (b *Buffers[F]) Reset() {
	for i := range b.entries {
		b.entries[i] = Entry[F]{Mapping: i}
	}
	b.count = MaxBuses
}

// Len returns the number of active entries.
func (b *Buffers[F]) Len() int {
	return b.count
}

// SetLen sets the number of active entries.
func (b *Buffers[F]) SetLen(n int) error {
	if n < 0 || n > MaxBuses {
		return fmt.Errorf("%w: %d entries, max %d", ErrInvalidBus, n, MaxBuses)
	}
	b.count = n
	return nil
}

// SetMapping points entry i at destination index mapping.
func (b *Buffers[F]) SetMapping(i, mapping int) error {
	if i < 0 || i >= MaxBuses {
		return fmt.Errorf("%w: entry %d out of range [0,%d)", ErrInvalidBus, i, MaxBuses)
	}
	if mapping < 0 {
		return fmt.Errorf("%w: negative destination %d for entry %d", ErrInvalidBus, mapping, i)
	}
	b.entries[i].Mapping = mapping
	return nil
}

// SetAmp sets the gain of entry i. Out-of-range entries are ignored so the
// control layer can set amps from the render thread without error paths.
func (b *Buffers[F]) SetAmp(i int, amp F) {
	if i < 0 || i >= MaxBuses {
		return
	}
	b.entries[i].Amp = amp
}

// Entry returns entry i.
func (b *Buffers[F]) Entry(i int) Entry[F] {
	return b.entries[i]
}

// MaxMapping returns the highest destination index used by active entries.
func (b *Buffers[F]) MaxMapping() int {
	m := -1
	for _, e := range b.entries[:b.count] {
		m = max(m, e.Mapping)
	}
	return m
}

// Mix accumulates buf into dest through the mapping table. Entries whose
// destination is nil or whose amp is 0 are skipped. Consecutive entries
// with equal amps reuse one product. scratch must hold len(buf) samples.
//
// Every active mapping must index into dest.
func (b *Buffers[F]) Mix(buf []F, dest [][]F, scratch []F) {
	n := len(buf)
	tmp := scratch[:n]

	var lastAmp F
	scaled := false
	for _, e := range b.entries[:b.count] {
		dst := dest[e.Mapping]
		if dst == nil || e.Amp == 0 {
			continue
		}
		if !scaled || e.Amp != lastAmp {
			b.ops.Scale(tmp, buf, e.Amp)
			lastAmp = e.Amp
			scaled = true
		}
		b.ops.Add(dst[:n], dst[:n], tmp)
	}
}
