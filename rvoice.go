package rvoice

import (
	"errors"
	"fmt"

	"github.com/tphakala/go-rvoice/internal/bus"
	"github.com/tphakala/go-rvoice/internal/engine"
	"github.com/tphakala/go-rvoice/internal/sample"
)

// Common errors returned by constructors and setters. The render path
// never returns errors.
var (
	// ErrInvalidConfig indicates invalid configuration parameters.
	ErrInvalidConfig = errors.New("invalid voice configuration")

	// ErrInvalidTable indicates a sample table violating its bound invariants.
	ErrInvalidTable = sample.ErrInvalidTable

	// ErrInvalidBus indicates a bus mapping outside the configured buses.
	ErrInvalidBus = bus.ErrInvalidBus
)

// Config holds render configuration shared by a Mixer and its voices.
type Config struct {
	// BlockSize is the number of samples rendered per block. Must be a power
	// of two; every voice and bus in one Mixer uses the same value.
	BlockSize int

	// OutputRate is the output sample rate in Hz.
	OutputRate float64

	// Interpolation is the default interpolation method for new voices.
	// The zero value is MethodNone; DefaultConfig selects Method4thOrder.
	Interpolation Method

	// Parallel renders voices on a worker pool. Each voice renders into its
	// own buffer; accumulation into the shared buses stays serial.
	// The parallel path allocates per block; the sequential path does not.
	Parallel bool

	// Workers caps the number of render goroutines when Parallel is set.
	// 0 means no cap.
	Workers int

	// AuxBuses is the number of destination buses after the stereo pair
	// (reverb, chorus, ...).
	AuxBuses int
}

// DefaultConfig returns the configuration used when none is given:
// 64-sample blocks at 44.1 kHz, 4th-order interpolation, reverb and chorus
// sends, sequential rendering.
func DefaultConfig() *Config {
	return &Config{
		BlockSize:     DefaultBlockSize,
		OutputRate:    DefaultOutputRate,
		Interpolation: Method4thOrder,
		AuxBuses:      defaultAuxBuses,
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.BlockSize <= 0 || c.BlockSize&(c.BlockSize-1) != 0 {
		return fmt.Errorf("%w: block size %d is not a positive power of two", ErrInvalidConfig, c.BlockSize)
	}

	if c.BlockSize > maxBlockSize {
		return fmt.Errorf("%w: block size %d exceeds %d", ErrInvalidConfig, c.BlockSize, maxBlockSize)
	}

	if c.OutputRate < minOutputRate || c.OutputRate > maxOutputRate {
		return fmt.Errorf("%w: output rate %v outside [%v, %v]", ErrInvalidConfig, c.OutputRate, minOutputRate, maxOutputRate)
	}

	if !c.Interpolation.Valid() {
		return fmt.Errorf("%w: unknown interpolation method %d", ErrInvalidConfig, int(c.Interpolation))
	}

	if c.Workers < 0 {
		return fmt.Errorf("%w: workers must not be negative", ErrInvalidConfig)
	}

	if c.AuxBuses < 0 || c.AuxBuses > maxAuxBuses {
		return fmt.Errorf("%w: aux buses must be 0-%d", ErrInvalidConfig, maxAuxBuses)
	}

	return nil
}

// Buses returns the number of destination buses: stereo plus AuxBuses.
func (c *Config) Buses() int {
	return stereoChannels + c.AuxBuses
}

// Method selects the interpolation kernel of a voice.
type Method = engine.Method

// Interpolation methods.
const (
	MethodNone     = engine.MethodNone
	MethodLinear   = engine.MethodLinear
	Method4thOrder = engine.Method4thOrder
	Method7thOrder = engine.Method7thOrder
	MethodDefault  = engine.MethodDefault
)

// ParseMethod maps a method name or number to a Method.
func ParseMethod(s string) (Method, error) {
	m, err := engine.ParseMethod(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return m, nil
}

// Status is the per-block outcome of Voice.Write.
type Status int

const (
	// StatusActive means the voice produced audible output.
	StatusActive Status = iota

	// StatusQuiet means the voice has decayed below the noise floor and is
	// not rising; it may be retired.
	StatusQuiet

	// StatusFinished means an unlooped sample has played to its end or the
	// voice was turned off.
	StatusFinished
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusQuiet:
		return "quiet"
	case StatusFinished:
		return "finished"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Retired reports whether a voice with this status can be removed.
func (s Status) Retired() bool {
	return s != StatusActive
}
