package rvoice

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tphakala/go-rvoice/internal/simdops"
)

// Mixer owns the destination buses of one output and sums its voices into
// them block by block.
//
// Voices added to a Mixer are rendered and mixed in insertion order; that
// order is also the accumulation order, so sequential and parallel
// rendering give bit-identical buses.
type Mixer[F simdops.Float] struct {
	cfg    Config
	ops    *simdops.Ops[F]
	voices []*Voice[F]
	buses  [][]F

	// OnRetire, when set, is called from RenderBlock for every voice that
	// reported a retiring status; the voice has already been removed.
	OnRetire func(v *Voice[F], s Status)
}

// NewMixer creates a mixer with cfg.Buses() zeroed destination buses.
func NewMixer[F simdops.Float](cfg *Config) (*Mixer[F], error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Mixer[F]{
		cfg:   *cfg,
		ops:   simdops.For[F](),
		buses: make([][]F, cfg.Buses()),
	}
	for i := range m.buses {
		m.buses[i] = make([]F, cfg.BlockSize)
	}
	return m, nil
}

// Add appends a voice. Its block size must match and every bus it maps
// to must exist.
func (m *Mixer[F]) Add(v *Voice[F]) error {
	if v.BlockSize() != m.cfg.BlockSize {
		return fmt.Errorf("%w: voice block size %d, mixer %d", ErrInvalidConfig, v.BlockSize(), m.cfg.BlockSize)
	}
	if mm := v.maxMapping(); mm >= len(m.buses) {
		return fmt.Errorf("%w: voice maps to bus %d, mixer has %d", ErrInvalidBus, mm, len(m.buses))
	}
	m.voices = append(m.voices, v)
	return nil
}

// Voices returns the number of voices.
func (m *Mixer[F]) Voices() int {
	return len(m.voices)
}

// Bus returns destination bus i as left by the last RenderBlock.
func (m *Mixer[F]) Bus(i int) []F {
	return m.buses[i]
}

// Buses returns all destination buses: left, right, then aux sends.
func (m *Mixer[F]) Buses() [][]F {
	return m.buses
}

// RenderBlock clears the buses, renders every voice and accumulates it
// into the buses. Voices that finish or fall quiet are removed after the
// block has been mixed. Returns the number of voices still active.
func (m *Mixer[F]) RenderBlock() int {
	for _, b := range m.buses {
		clear(b)
	}

	if m.cfg.Parallel && len(m.voices) > 1 {
		m.renderParallel()
		for _, v := range m.voices {
			v.Mix(m.buses)
		}
	} else {
		for _, v := range m.voices {
			v.Write()
			v.Mix(m.buses)
		}
	}

	m.retire()
	return len(m.voices)
}

// renderParallel runs Write for all voices on the worker pool. Each voice
// writes only its own buffer, so the group needs no further locking.
func (m *Mixer[F]) renderParallel() {
	var g errgroup.Group
	if m.cfg.Workers > 0 {
		g.SetLimit(m.cfg.Workers)
	}
	for _, v := range m.voices {
		g.Go(func() error {
			v.Write()
			return nil
		})
	}
	_ = g.Wait()
}

// retire removes voices with a retiring status, keeping the order of the
// rest.
func (m *Mixer[F]) retire() {
	kept := m.voices[:0]
	for _, v := range m.voices {
		if s := v.Status(); s.Retired() {
			if m.OnRetire != nil {
				m.OnRetire(v, s)
			}
			continue
		}
		kept = append(kept, v)
	}
	clear(m.voices[len(kept):])
	m.voices = kept
}

// Interleave writes the stereo pair as [L0, R0, L1, R1, ...] into dst,
// which must hold 2·BlockSize samples.
func (m *Mixer[F]) Interleave(dst []F) {
	n := m.cfg.BlockSize
	m.ops.Interleave2(dst[:n*stereoChannels], m.buses[0], m.buses[1])
}
