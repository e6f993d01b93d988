package main

import (
	"log"
	"math"

	rvoice "github.com/tphakala/go-rvoice"
	"github.com/tphakala/go-rvoice/internal/simdops"
)

// envelope is the control layer of the CLI: once per block it commits the
// amplitude, filter sweep and release targets to each voice.
type envelope[F simdops.Float] struct {
	voices        []*rvoice.Voice[F]
	blockSize     int
	rate          float64
	level         F
	holdBlocks    int
	releaseBlocks int

	cutoff, sweep, q float64

	verbose      bool
	lastProgress int
}

func newEnvelope[F simdops.Float](cfg *rvoice.Config, voices []*rvoice.Voice[F], o *renderOptions) *envelope[F] {
	return &envelope[F]{
		voices:        voices,
		blockSize:     cfg.BlockSize,
		rate:          cfg.OutputRate,
		level:         F(1 / math.Sqrt(float64(len(voices)))),
		holdBlocks:    max(1, secondsToBlocks(o.duration, o.rate, cfg.BlockSize)),
		releaseBlocks: max(1, secondsToBlocks(o.release, o.rate, cfg.BlockSize)),
		cutoff:        o.cutoff,
		sweep:         o.sweep,
		q:             o.q,
		verbose:       o.verbose,
	}
}

// amp returns the block-end amplitude for block.
func (e *envelope[F]) amp(block int) F {
	if block < e.holdBlocks {
		return e.level
	}
	done := float64(block-e.holdBlocks+1) / float64(e.releaseBlocks)
	return e.level * F(max(0, 1-done))
}

// cutoffAt returns the swept cutoff for block, moving geometrically from
// cutoff to sweep over the hold phase.
func (e *envelope[F]) cutoffAt(block int) float64 {
	t := min(float64(block+1)/float64(e.holdBlocks), 1)
	return e.cutoff * math.Pow(e.sweep/e.cutoff, t)
}

// commit is the pipeline OnBlock hook.
func (e *envelope[F]) commit(block int) {
	t := rvoice.Targets[F]{
		Amp:      e.amp(block),
		Released: block >= e.holdBlocks,
	}
	if e.cutoff > 0 && e.sweep > 0 {
		c, on := rvoice.DesignLowPass[F](e.cutoffAt(block), e.q, e.rate)
		t.SetFilter = true
		t.FilterEnabled = on
		t.Filter = c
		t.FilterSamples = e.blockSize
	}

	for _, v := range e.voices {
		targets := t
		v.Commit(&targets)
	}
	e.reportProgress(block)
}

func (e *envelope[F]) reportProgress(block int) {
	if !e.verbose {
		return
	}
	total := e.holdBlocks + e.releaseBlocks
	progress := min(block*percentScale/total, percentScale)
	if progress >= e.lastProgress+progressInterval {
		log.Printf("Progress: %d%%", progress)
		e.lastProgress = progress
	}
}
