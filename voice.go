package rvoice

import (
	"fmt"
	"math"
	"sync/atomic"

	"github.com/tphakala/go-rvoice/internal/bus"
	"github.com/tphakala/go-rvoice/internal/engine"
	"github.com/tphakala/go-rvoice/internal/filter"
	"github.com/tphakala/go-rvoice/internal/mathutil"
	"github.com/tphakala/go-rvoice/internal/phase"
	"github.com/tphakala/go-rvoice/internal/sample"
	"github.com/tphakala/go-rvoice/internal/simdops"
)

// Default pitch setup: a sample recorded at the output rate and played at
// its root key renders at unity increment.
const defaultRootCents = 6000.0

// Voice is the render state of one sounding note.
//
// Write and Mix are the render-thread operations: they never allocate, lock
// or block. Commit may be called from any goroutine. All other methods
// configure the voice and must not run concurrently with Write or Mix;
// the owning thread calls them between blocks.
type Voice[F simdops.Float] struct {
	blockSize  int
	outputRate float64
	numBuses   int

	dsp           *engine.DSP[F]
	filter        *filter.IIR[F]
	filterEnabled bool
	buses         *bus.Buffers[F]

	buf      []F
	scratch  []F
	rendered int
	status   Status
	off      bool

	staged atomic.Pointer[Targets[F]]

	// ampTarget is where a ramp derived from Targets.Amp ends; ampLanding
	// is set while such a ramp is running.
	ampTarget  F
	ampLanding bool

	pitch        float64 // cents
	rootHz       float64
	sampleRate   float64
	explicitIncr bool
	portaOffset  float64 // cents
	portaIncr    float64 // cents per block

	attenuation    float64 // cB
	minAttenuation float64 // cB
	headroom       float64
	synthGain      float64
	pan            F
	loopPeak       float64
	floorLoop      float64
	floorNonLoop   float64
}

// NewVoice creates a voice playing table t with cfg's block size, output
// rate and default interpolation. The voice starts at the table start with
// zero amplitude, unity increment and the filter disabled.
func NewVoice[F simdops.Float](cfg *Config, t *Table) (*Voice[F], error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	v := &Voice[F]{
		blockSize:      cfg.BlockSize,
		outputRate:     cfg.OutputRate,
		numBuses:       cfg.Buses(),
		dsp:            engine.NewDSP[F](t, cfg.Interpolation),
		filter:         filter.New(filter.Identity[F]()),
		buses:          bus.NewBuffers[F](),
		buf:            make([]F, cfg.BlockSize),
		scratch:        make([]F, cfg.BlockSize),
		pitch:          defaultRootCents,
		rootHz:         mathutil.CentsToHz(defaultRootCents),
		sampleRate:     cfg.OutputRate,
		synthGain:      defaultSynthGain,
		headroom:       1,
	}
	if err := v.buses.SetLen(min(MaxBuses, v.numBuses)); err != nil {
		return nil, err
	}
	v.loopPeak = t.LoopPeak()
	v.updateFloors()
	v.updateIncr()
	return v, nil
}

// Commit stages targets for the next block. The pointer is swapped in
// atomically and applied once at the start of the next Write, so a block
// never sees a partial update. A later Commit before that Write replaces
// the earlier one.
func (v *Voice[F]) Commit(t *Targets[F]) {
	v.staged.Store(t)
}

// Write renders one block into the voice buffer: staged targets are
// applied, the table is interpolated with the amplitude ramp, and the
// filter runs in place when enabled. It returns the number of samples
// rendered (short only when the sample ended) and the voice status.
func (v *Voice[F]) Write() (int, Status) {
	if t := v.staged.Swap(nil); t != nil {
		v.apply(t)
	} else if v.ampLanding {
		v.dsp.Amp, v.dsp.AmpIncr = v.ampTarget, 0
		v.ampLanding = false
	}

	if v.off {
		clear(v.buf)
		v.rendered = 0
		v.status = StatusFinished
		return 0, v.status
	}

	v.stepPortamento()

	n := v.dsp.Interpolate(v.buf, 0, v.blockSize)
	if v.filterEnabled && n > 0 {
		v.filter.Apply(v.buf[:n])
	}

	v.rendered = n
	v.status = v.classify()
	return n, v.status
}

// Mix accumulates the last rendered block into dest through the voice's
// bus mapping table. Nil destinations and zero amps are skipped.
func (v *Voice[F]) Mix(dest [][]F) {
	v.buses.Mix(v.buf[:v.rendered], dest, v.scratch)
}

// MixPanned accumulates the last block into a stereo pair using the left
// and right entry amps and the voice pan, then into reverb and chorus
// sends. Nil channels and nil sends are skipped.
func (v *Voice[F]) MixPanned(left, right, reverb, chorus []F) {
	out := v.buf[:v.rendered]
	bus.ApplyPan(out, left, right, v.scratch,
		v.buses.Entry(bus.Left).Amp, v.buses.Entry(bus.Right).Amp, v.pan)
	bus.ApplySend(out, reverb, v.scratch, v.buses.Entry(bus.Reverb).Amp)
	bus.ApplySend(out, chorus, v.scratch, v.buses.Entry(bus.Chorus).Amp)
}

func (v *Voice[F]) apply(t *Targets[F]) {
	if t.PhaseIncr > 0 {
		v.explicitIncr = true
		v.dsp.Incr = phase.FromFloat(t.PhaseIncr)
	}

	if t.HasAmpIncr {
		v.dsp.AmpIncr = t.AmpIncr
		v.ampLanding = false
	} else {
		v.dsp.AmpIncr = (t.Amp - v.dsp.Amp) / F(v.blockSize)
		v.ampTarget = t.Amp
		v.ampLanding = true
	}

	if t.SetFilter {
		v.setFilter(t.FilterEnabled, t.Filter, t.FilterSamples)
	}

	if t.SetBusAmps {
		for i, amp := range t.BusAmps {
			v.buses.SetAmp(i, amp)
		}
	}

	if t.SetPan {
		v.SetPan(t.Pan)
	}

	if t.Released {
		v.dsp.Released = true
	}
}

func (v *Voice[F]) setFilter(enabled bool, c filter.Coefficients[F], samples int) {
	switch {
	case !enabled:
		v.filterEnabled = false
	case !v.filterEnabled:
		// A filter switched on starts from silence at its target response.
		v.filter.SetCoefficients(c)
		v.filter.Reset()
		v.filterEnabled = true
	default:
		v.filter.SetTarget(c, samples)
	}
}

func (v *Voice[F]) stepPortamento() {
	if v.portaIncr == 0 {
		return
	}
	v.portaOffset += v.portaIncr
	if (v.portaIncr > 0 && v.portaOffset > 0) || (v.portaIncr < 0 && v.portaOffset < 0) {
		v.portaOffset = 0
		v.portaIncr = 0
	}
	v.updateIncr()
}

func (v *Voice[F]) updateIncr() {
	if v.explicitIncr {
		return
	}
	incr := PitchToIncrement(v.pitch+v.portaOffset, v.rootHz, v.sampleRate, v.outputRate)
	v.dsp.Incr = phase.FromFloat(incr)
}

func (v *Voice[F]) updateFloors() {
	if v.synthGain <= 0 {
		v.floorNonLoop = math.Inf(1)
		v.floorLoop = math.Inf(1)
		return
	}
	v.floorNonLoop = NoiseFloor / v.synthGain
	if v.loopPeak > 0 {
		v.floorLoop = NoiseFloor / (v.synthGain * v.loopPeak)
	} else {
		v.floorLoop = math.Inf(1)
	}
}

func (v *Voice[F]) updateHeadroom() {
	v.headroom = max(1, mathutil.CentibelsToAmplitude(v.minAttenuation-v.attenuation))
}

func (v *Voice[F]) classify() Status {
	if v.dsp.Finished() {
		return StatusFinished
	}
	if v.dsp.AmpIncr > 0 {
		return StatusActive
	}
	floor := v.floorNonLoop
	if v.dsp.HasLooped {
		floor = v.floorLoop
	}
	if float64(v.dsp.Amp)*v.headroom < floor {
		return StatusQuiet
	}
	return StatusActive
}

// Buffer returns the voice's block buffer as left by the last Write.
func (v *Voice[F]) Buffer() []F {
	return v.buf
}

// Rendered returns the sample count of the last Write.
func (v *Voice[F]) Rendered() int {
	return v.rendered
}

// Status returns the status of the last Write. A voice whose amplitude
// is zero and not ramping reports StatusQuiet, so a freshly created voice
// needs an Amp target committed before its first Write.
func (v *Voice[F]) Status() Status {
	return v.status
}

// BlockSize returns the number of samples per block.
func (v *Voice[F]) BlockSize() int {
	return v.blockSize
}

// Amp returns the current amplitude.
func (v *Voice[F]) Amp() F {
	return v.dsp.Amp
}

// AmpIncr returns the per-sample amplitude increment.
func (v *Voice[F]) AmpIncr() F {
	return v.dsp.AmpIncr
}

// Position returns the read position in table samples.
func (v *Voice[F]) Position() float64 {
	return v.dsp.Phase.Float()
}

// Increment returns the per-sample phase increment in table samples.
func (v *Voice[F]) Increment() float64 {
	return v.dsp.Incr.Float()
}

// HasLooped reports whether playback has wrapped at the loop end.
func (v *Voice[F]) HasLooped() bool {
	return v.dsp.HasLooped
}

// Released reports whether the note has been released.
func (v *Voice[F]) Released() bool {
	return v.dsp.Released
}

// FilterEnabled reports whether the filter stage runs.
func (v *Voice[F]) FilterEnabled() bool {
	return v.filterEnabled
}

// Filter returns the current filter coefficients.
func (v *Voice[F]) Filter() FilterCoefficients[F] {
	return v.filter.Coefficients()
}

// Method returns the interpolation method.
func (v *Voice[F]) Method() Method {
	return v.dsp.Method
}

// Bus returns mapping entry i.
func (v *Voice[F]) Bus(i int) (mapping int, amp F) {
	e := v.buses.Entry(i)
	return e.Mapping, e.Amp
}

// Sample returns the table being played.
func (v *Voice[F]) Sample() *Table {
	return v.dsp.Sample()
}

// maxMapping returns the highest destination index the voice writes to.
func (v *Voice[F]) maxMapping() int {
	return v.buses.MaxMapping()
}

// SetInterpolation selects the interpolation method.
func (v *Voice[F]) SetInterpolation(m Method) error {
	if !m.Valid() {
		return fmt.Errorf("%w: unknown interpolation method %d", ErrInvalidConfig, int(m))
	}
	v.dsp.Method = m
	return nil
}

// SetSample switches to table t, resetting bounds to the table's and the
// position to its start.
func (v *Voice[F]) SetSample(t *Table) error {
	if err := t.Validate(); err != nil {
		return err
	}
	v.dsp.SetSample(t)
	v.loopPeak = t.LoopPeak()
	v.updateFloors()
	return nil
}

// SetBounds overrides the playable and loop region within the current
// table, as sample offset generators do.
func (v *Voice[F]) SetBounds(b Bounds) error {
	t := v.dsp.Sample()
	probe := sample.Table{
		Data:      t.Data,
		LSB:       t.LSB,
		Start:     b.Start,
		End:       b.End,
		LoopStart: b.LoopStart,
		LoopEnd:   b.LoopEnd,
	}
	if err := probe.Validate(); err != nil {
		return err
	}
	v.dsp.Bounds = b
	v.loopPeak = probe.LoopPeak()
	v.updateFloors()
	return nil
}

// SetPosition moves the read position to pos table samples.
func (v *Voice[F]) SetPosition(pos float64) {
	v.dsp.Phase = phase.FromFloat(pos)
}

// SetLoopMode selects the loop mode.
func (v *Voice[F]) SetLoopMode(m LoopMode) {
	v.dsp.Mode = m
}

// NoteOff releases the note. Loop-until-release voices play through to the
// sample end from the next block.
func (v *Voice[F]) NoteOff() {
	v.dsp.Released = true
}

// VoiceOff silences the voice; the next Write reports StatusFinished.
func (v *Voice[F]) VoiceOff() {
	v.off = true
}

// Reset prepares the voice for reuse on its current table: position,
// amplitude, filter history, bus amps, portamento and staged targets are
// cleared; method, loop mode and pitch setup are kept.
func (v *Voice[F]) Reset() {
	v.staged.Store(nil)
	v.dsp.Reset()
	v.filter.Reset()
	v.filter.SetCoefficients(filter.Identity[F]())
	v.filterEnabled = false
	v.buses.Reset()
	// numBuses was accepted by NewVoice, so SetLen cannot fail here.
	_ = v.buses.SetLen(min(MaxBuses, v.numBuses))
	v.ampLanding = false
	v.off = false
	v.rendered = 0
	v.status = StatusActive
	v.portaOffset = 0
	v.portaIncr = 0
	v.explicitIncr = false
	v.pan = 0
	v.updateIncr()
}

// SetOutputRate changes the output rate used to derive the increment.
func (v *Voice[F]) SetOutputRate(hz float64) error {
	if hz < minOutputRate || hz > maxOutputRate {
		return fmt.Errorf("%w: output rate %v outside [%v, %v]", ErrInvalidConfig, hz, minOutputRate, maxOutputRate)
	}
	v.outputRate = hz
	v.updateIncr()
	return nil
}

// SetPitch sets the note pitch in absolute cents (6900 = A4) and returns
// the voice to pitch-derived increments.
func (v *Voice[F]) SetPitch(cents float64) {
	v.pitch = cents
	v.explicitIncr = false
	v.updateIncr()
}

// SetRootPitch sets the frequency at which the table plays back unchanged
// and the rate the table was recorded at.
func (v *Voice[F]) SetRootPitch(rootHz, sampleRate float64) error {
	if rootHz <= 0 || sampleRate <= 0 {
		return fmt.Errorf("%w: root pitch and sample rate must be positive", ErrInvalidConfig)
	}
	v.rootHz = rootHz
	v.sampleRate = sampleRate
	v.updateIncr()
	return nil
}

// SetPortamento glides the pitch from an offset of offsetCents towards the
// target pitch over countinc blocks. Offsets accumulate with a glide
// already in progress. A zero count is ignored.
func (v *Voice[F]) SetPortamento(countinc int, offsetCents float64) {
	if countinc <= 0 {
		return
	}
	v.portaOffset += offsetCents
	v.portaIncr = -v.portaOffset / float64(countinc)
	v.updateIncr()
}

// PortamentoOffset returns the remaining pitch offset in cents.
func (v *Voice[F]) PortamentoOffset() float64 {
	return v.portaOffset
}

// SetAttenuation records the current attenuation in centibels.
func (v *Voice[F]) SetAttenuation(cb float64) {
	v.attenuation = cb
	v.updateHeadroom()
}

// SetMinAttenuation records the lowest attenuation modulators can reach,
// in centibels. The difference to the current attenuation is headroom the
// voice may still gain, so it delays the quiet verdict.
func (v *Voice[F]) SetMinAttenuation(cb float64) {
	v.minAttenuation = cb
	v.updateHeadroom()
}

// SetSynthGain records the master gain used to scale pan amps and the
// noise floor estimates.
func (v *Voice[F]) SetSynthGain(g float64) {
	v.synthGain = g
	v.updateFloors()
}

// SetPan sets left and right bus amps from the pan law for pan in
// SoundFont units (-500..500), scaled by the synth gain.
func (v *Voice[F]) SetPan(pan F) {
	l, r := PanGains(float64(pan))
	v.buses.SetAmp(bus.Left, F(l*v.synthGain))
	v.buses.SetAmp(bus.Right, F(r*v.synthGain))
	v.pan = pan
}

// SetBusAmp sets the gain of mapping entry i.
func (v *Voice[F]) SetBusAmp(i int, amp F) {
	v.buses.SetAmp(i, amp)
}

// SetBusMapping points mapping entry i at destination bus index mapping.
func (v *Voice[F]) SetBusMapping(i, mapping int) error {
	if mapping >= v.numBuses {
		return fmt.Errorf("%w: destination %d, have %d buses", ErrInvalidBus, mapping, v.numBuses)
	}
	return v.buses.SetMapping(i, mapping)
}

// SetAmp jumps to amplitude amp with increment incr.
func (v *Voice[F]) SetAmp(amp, incr F) {
	v.dsp.Amp = amp
	v.dsp.AmpIncr = incr
	v.ampLanding = false
}

// SetIncrement sets an explicit phase increment in table samples per
// output sample, overriding the pitch until the next SetPitch.
func (v *Voice[F]) SetIncrement(incr float64) {
	v.explicitIncr = true
	v.dsp.Incr = phase.FromFloat(incr)
}

// SetFilter enables the filter and glides it to c over samples samples.
// A filter that was disabled jumps to c with cleared history.
func (v *Voice[F]) SetFilter(c FilterCoefficients[F], samples int) {
	v.setFilter(true, c, samples)
}

// DisableFilter skips the filter stage from the next block.
func (v *Voice[F]) DisableFilter() {
	v.filterEnabled = false
}
