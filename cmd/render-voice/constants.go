package main

import "time"

// CLI defaults
const (
	defaultKey      = 60.0
	defaultDuration = 2.0
	defaultRelease  = 0.5
	defaultGain     = 0.5
	defaultGlide    = 0.1
	maxRequiredArgs = 2
)

// Sample format constants
const (
	bitsPerSample16 = 16
	bitsPerSample24 = 24
	bitsPerSample32 = 32

	// wavPCMFormat is the WAVE_FORMAT_PCM tag.
	wavPCMFormat = 1

	// int16Scale converts normalized float samples to 16-bit units.
	int16Scale = 32768.0
	maxInt16   = 32767
	minInt16   = -32768

	// lsbBits is the width of the low-order byte of a 24-bit sample.
	lsbBits = 8
	lsbMask = 0xff

	// mp3Channels is the channel count go-mp3 always decodes to.
	mp3Channels = 2

	// bytesPerSample16 is the size of one 16-bit PCM sample.
	bytesPerSample16 = 2

	outputChannels = 2
)

// Playback constants
const (
	// otoBufferSize is the device-side buffer duration.
	otoBufferSize = 50 * time.Millisecond

	// playbackBlocks is the number of blocks queued between the renderer
	// and the device.
	playbackBlocks = 32

	// drainPoll is how often Close checks whether the device has drained.
	drainPoll = 10 * time.Millisecond
)

// Render loop constants
const (
	// tailBlocks are rendered after the last voice retires.
	tailBlocks = 2

	progressInterval = 10 // Print progress every N%
	percentScale     = 100
)
