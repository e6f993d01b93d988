package rvoice

import (
	"errors"
	"fmt"
	"math"
	"testing"

	"gonum.org/v1/gonum/floats"

	"github.com/tphakala/go-rvoice/internal/bus"
)

// mixerTable returns a looped sine table shared by test voices.
func mixerTable(tb testing.TB, n int, period float64) *Table {
	tb.Helper()
	data := make([]int16, n)
	for i := range data {
		data[i] = int16(math.Round(16000 * math.Sin(2*math.Pi*float64(i)/period)))
	}
	tab, err := NewTable(PadTable(data))
	if err != nil {
		tb.Fatalf("Failed to create table: %v", err)
	}
	return tab
}

// populate adds count voices with varied methods, pitches, filters and
// pans. Every fifth voice is unlooped so it finishes part way through.
func populate(tb testing.TB, m *Mixer[float64], cfg *Config, count int) {
	tb.Helper()
	looped := mixerTable(tb, 4096, 97.3)
	short := mixerTable(tb, 700, 31)
	methods := []Method{MethodNone, MethodLinear, Method4thOrder, Method7thOrder}

	for i := range count {
		tab := looped
		if i%5 == 4 {
			tab = short
		}
		v, err := NewVoice[float64](cfg, tab)
		if err != nil {
			tb.Fatalf("Failed to create voice %d: %v", i, err)
		}
		if err := v.SetInterpolation(methods[i%len(methods)]); err != nil {
			tb.Fatalf("SetInterpolation failed: %v", err)
		}
		if tab == looped {
			v.SetLoopMode(LoopDuringRelease)
		}
		v.SetPitch(5400 + float64(i)*37)
		v.SetPan(float64(i*83%1000) - 500)
		v.SetBusAmp(bus.Reverb, 0.1*float64(i%3))
		v.SetBusAmp(bus.Chorus, 0.05*float64(i%2))
		if i%2 == 0 {
			c, _ := DesignLowPass[float64](800+float64(i)*150, float64(i%7), cfg.OutputRate)
			v.SetFilter(c, 0)
		}
		v.SetAmp(1.0/float64(count), 0)

		if err := m.Add(v); err != nil {
			tb.Fatalf("Add failed: %v", err)
		}
	}
}

// TestRenderBlockParallel tests that parallel rendering produces the same
// buses as sequential rendering.
func TestRenderBlockParallel(t *testing.T) {
	const (
		numVoices = 24
		numBlocks = 40
	)

	cfgSeq := DefaultConfig()
	cfgPar := DefaultConfig()
	cfgPar.Parallel = true
	cfgPar.Workers = 4

	mixerSeq, err := NewMixer[float64](cfgSeq)
	if err != nil {
		t.Fatalf("Failed to create sequential mixer: %v", err)
	}
	mixerPar, err := NewMixer[float64](cfgPar)
	if err != nil {
		t.Fatalf("Failed to create parallel mixer: %v", err)
	}

	populate(t, mixerSeq, cfgSeq, numVoices)
	populate(t, mixerPar, cfgPar, numVoices)

	for block := range numBlocks {
		activeSeq := mixerSeq.RenderBlock()
		activePar := mixerPar.RenderBlock()
		if activeSeq != activePar {
			t.Fatalf("Block %d active voice mismatch: seq=%d, par=%d", block, activeSeq, activePar)
		}

		for b := range cfgSeq.Buses() {
			seq, par := mixerSeq.Bus(b), mixerPar.Bus(b)
			// Verify outputs are identical (bit-exact)
			for i := range seq {
				if seq[i] != par[i] {
					t.Fatalf("Block %d bus %d sample %d mismatch: seq=%v, par=%v",
						block, b, i, seq[i], par[i])
				}
			}
		}
	}

	if mixerSeq.Voices() == numVoices {
		t.Errorf("Unlooped voices were not retired")
	}
}

// TestRenderBlockMatchesManualMix verifies the mixer sums voices exactly
// as mixing each voice by hand would.
func TestRenderBlockMatchesManualMix(t *testing.T) {
	cfg := DefaultConfig()
	tab := mixerTable(t, 2048, 50)

	mixer, err := NewMixer[float64](cfg)
	if err != nil {
		t.Fatalf("Failed to create mixer: %v", err)
	}

	newVoice := func(i int) *Voice[float64] {
		v, err := NewVoice[float64](cfg, tab)
		if err != nil {
			t.Fatalf("Failed to create voice: %v", err)
		}
		v.SetIncrement(0.5 + 0.25*float64(i))
		v.SetAmp(0.3, 0)
		v.SetPan(float64(i)*200 - 200)
		return v
	}

	var solo []*Voice[float64]
	for i := range 3 {
		if err := mixer.Add(newVoice(i)); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
		solo = append(solo, newVoice(i))
	}

	mixer.RenderBlock()

	want := make([][]float64, cfg.Buses())
	for i := range want {
		want[i] = make([]float64, cfg.BlockSize)
	}
	for _, v := range solo {
		v.Write()
		v.Mix(want)
	}

	for b := range want {
		if !floats.Equal(want[b], mixer.Bus(b)) {
			t.Errorf("Bus %d differs from manual mix", b)
		}
	}
}

// TestRenderBlockRetire verifies finished and quiet voices are removed and
// reported after their last block is mixed.
func TestRenderBlockRetire(t *testing.T) {
	cfg := DefaultConfig()
	mixer, err := NewMixer[float64](cfg)
	if err != nil {
		t.Fatalf("Failed to create mixer: %v", err)
	}

	short, err := NewTable(PadTable([]int16{100, 100, 100, 100, 100}))
	if err != nil {
		t.Fatalf("Failed to create table: %v", err)
	}
	long := mixerTable(t, 1024, 64)

	finishing, _ := NewVoice[float64](cfg, short)
	finishing.SetAmp(1, 0)
	finishing.SetBusAmp(bus.Left, 1)

	quiet, _ := NewVoice[float64](cfg, long)
	quiet.SetAmp(1e-12, 0)

	active, _ := NewVoice[float64](cfg, long)
	active.SetAmp(0.5, 0)
	active.SetLoopMode(LoopDuringRelease)

	for _, v := range []*Voice[float64]{finishing, quiet, active} {
		if err := mixer.Add(v); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	retired := map[*Voice[float64]]Status{}
	mixer.OnRetire = func(v *Voice[float64], s Status) { retired[v] = s }

	if got := mixer.RenderBlock(); got != 1 {
		t.Fatalf("Active voices after first block: got=%d, want=1", got)
	}
	if retired[finishing] != StatusFinished {
		t.Errorf("Finishing voice status: got=%v", retired[finishing])
	}
	if retired[quiet] != StatusQuiet {
		t.Errorf("Quiet voice status: got=%v", retired[quiet])
	}
	if _, ok := retired[active]; ok {
		t.Errorf("Active voice was retired")
	}

	// The finished voice's last block is still mixed.
	if got := mixer.Bus(0)[0]; got != 100 {
		t.Errorf("Left bus first sample: got=%v, want=100", got)
	}
}

// TestMixerAdd verifies voices must match the mixer's block size and buses.
func TestMixerAdd(t *testing.T) {
	cfg := DefaultConfig()
	cfg.AuxBuses = 0
	mixer, err := NewMixer[float64](cfg)
	if err != nil {
		t.Fatalf("Failed to create mixer: %v", err)
	}
	tab := mixerTable(t, 256, 32)

	other := DefaultConfig()
	other.BlockSize = 128
	v, _ := NewVoice[float64](other, tab)
	if err := mixer.Add(v); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Block size mismatch: got err=%v", err)
	}

	// Default four-bus voice maps entries onto reverb and chorus.
	v, _ = NewVoice[float64](DefaultConfig(), tab)
	if err := mixer.Add(v); !errors.Is(err, ErrInvalidBus) {
		t.Errorf("Missing aux bus: got err=%v", err)
	}

	v, _ = NewVoice[float64](cfg, tab)
	if err := mixer.Add(v); err != nil {
		t.Errorf("Stereo voice rejected: %v", err)
	}

	if _, err := NewMixer[float64](nil); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Nil config: got err=%v", err)
	}
}

// TestMixerInterleave verifies the stereo pair is interleaved L/R.
func TestMixerInterleave(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BlockSize = 8
	mixer, err := NewMixer[float32](cfg)
	if err != nil {
		t.Fatalf("Failed to create mixer: %v", err)
	}

	tab, _ := NewTable(PadTable([]int16{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
	v, _ := NewVoice[float32](cfg, tab)
	v.SetAmp(1, 0)
	v.SetBusAmp(bus.Left, 1)
	v.SetBusAmp(bus.Right, -1)
	if err := mixer.Add(v); err != nil {
		t.Fatalf("Add failed: %v", err)
	}

	mixer.RenderBlock()
	out := make([]float32, 2*cfg.BlockSize)
	mixer.Interleave(out)

	for i := range cfg.BlockSize {
		l, r := out[2*i], out[2*i+1]
		if l != float32(i+1) || r != -float32(i+1) {
			t.Fatalf("Frame %d: got=(%v, %v), want=(%v, %v)", i, l, r, i+1, -(i + 1))
		}
	}
}

// TestRenderBlockSequentialNoAllocs verifies the sequential mixer path
// never allocates.
func TestRenderBlockSequentialNoAllocs(t *testing.T) {
	cfg := DefaultConfig()
	mixer, err := NewMixer[float64](cfg)
	if err != nil {
		t.Fatalf("Failed to create mixer: %v", err)
	}
	tab := mixerTable(t, 4096, 97.3)
	for i := range 8 {
		v, _ := NewVoice[float64](cfg, tab)
		v.SetLoopMode(LoopDuringRelease)
		v.SetIncrement(0.9 + 0.05*float64(i))
		v.SetAmp(0.1, 0)
		v.SetPan(0)
		if err := mixer.Add(v); err != nil {
			t.Fatalf("Add failed: %v", err)
		}
	}

	allocs := testing.AllocsPerRun(50, func() { mixer.RenderBlock() })
	if allocs != 0 {
		t.Errorf("RenderBlock allocates: %v allocs/op", allocs)
	}
	if mixer.Voices() != 8 {
		t.Errorf("Voices retired unexpectedly: %d left", mixer.Voices())
	}
}

func ExampleMixer() {
	cfg := DefaultConfig()
	cfg.BlockSize = 4
	mixer, _ := NewMixer[float64](cfg)

	tab, _ := NewTable(PadTable([]int16{10, 20, 30, 40, 50, 60, 70}))
	voice, _ := NewVoice[float64](cfg, tab)
	voice.SetBusAmp(0, 1)
	voice.Commit(&Targets[float64]{Amp: 1})
	_ = mixer.Add(voice)

	mixer.RenderBlock()
	fmt.Println(mixer.Bus(0))
	// Output: [0 5 15 30]
}
