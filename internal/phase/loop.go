package phase

import "fmt"

// LoopMode selects how playback treats the loop region. Values match the
// SoundFont sampleModes generator.
type LoopMode int

// Loop modes.
const (
	// Unlooped plays from start to end once.
	Unlooped LoopMode = 0

	// LoopDuringRelease loops for the whole life of the voice, including
	// the release phase.
	LoopDuringRelease LoopMode = 1

	// Disabled is reserved by SoundFont and behaves like Unlooped.
	Disabled LoopMode = 2

	// LoopUntilRelease loops while the key is held and then plays through
	// to the end.
	LoopUntilRelease LoopMode = 3
)

// String returns the mode name.
func (m LoopMode) String() string {
	switch m {
	case Unlooped:
		return "unlooped"
	case LoopDuringRelease:
		return "loop-during-release"
	case Disabled:
		return "disabled"
	case LoopUntilRelease:
		return "loop-until-release"
	default:
		return fmt.Sprintf("LoopMode(%d)", int(m))
	}
}

// Looping reports whether a voice in mode m wraps at the loop end, given
// whether its note has been released.
func Looping(m LoopMode, released bool) bool {
	switch m {
	case LoopDuringRelease:
		return true
	case LoopUntilRelease:
		return !released
	default:
		return false
	}
}

// Bounds holds the playable and loop region of a voice in sample indices.
// Start ≤ LoopStart < LoopEnd ≤ End.
type Bounds struct {
	Start     int
	End       int
	LoopStart int
	LoopEnd   int
}

// LoopLen returns the loop length in samples.
func (b Bounds) LoopLen() int {
	return b.LoopEnd - b.LoopStart
}

// Wrap moves p back into the loop while its index is at or past LoopEnd:
// the new index is LoopStart + (index - LoopEnd), with the fraction kept.
// Increments larger than the loop are folded repeatedly. Reports whether
// any wrap happened.
func (b Bounds) Wrap(p Phase) (Phase, bool) {
	if p.Index() < b.LoopEnd {
		return p, false
	}
	n := b.LoopLen()
	for p.Index() >= b.LoopEnd {
		p = p.SubIndex(n)
	}
	return p, true
}

// WrapIndex maps a tap index at or past LoopEnd back into the loop.
// Indices below LoopEnd are returned unchanged.
func (b Bounds) WrapIndex(i int) int {
	if i < b.LoopEnd {
		return i
	}
	return b.LoopStart + (i-b.LoopEnd)%b.LoopLen()
}

// WrapBehind maps a tap index before LoopStart to the matching position
// at the loop tail. Indices at or after LoopStart are returned unchanged.
func (b Bounds) WrapBehind(i int) int {
	if i >= b.LoopStart {
		return i
	}
	return b.LoopEnd - 1 - (b.LoopStart-1-i)%b.LoopLen()
}

// Clamp limits a lookbehind tap index to Start.
func (b Bounds) Clamp(i int) int {
	if i < b.Start {
		return b.Start
	}
	return i
}
