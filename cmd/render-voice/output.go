package main

import (
	"fmt"
	"math"
	"os"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/tphakala/go-rvoice/internal/pipeline"
	"github.com/tphakala/go-rvoice/internal/simdops"
)

// wavSink encodes interleaved stereo blocks in 16-bit units as PCM.
type wavSink[F simdops.Float] struct {
	file *os.File
	enc  *wav.Encoder
	buf  *audio.IntBuffer
	bits int
}

// newWAVSink creates the output file and its encoder.
func newWAVSink[F simdops.Float](path string, rate, bits int) (*wavSink[F], error) {
	if bits != bitsPerSample16 && bits != bitsPerSample24 {
		return nil, fmt.Errorf("unsupported output bit depth %d", bits)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &wavSink[F]{
		file: f,
		enc:  wav.NewEncoder(f, rate, bits, outputChannels, wavPCMFormat),
		buf: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: outputChannels, SampleRate: rate},
			SourceBitDepth: bits,
		},
		bits: bits,
	}, nil
}

// Write implements pipeline.Sink.
func (w *wavSink[F]) Write(interleaved []F) error {
	if cap(w.buf.Data) < len(interleaved) {
		w.buf.Data = make([]int, len(interleaved))
	}
	w.buf.Data = w.buf.Data[:len(interleaved)]
	toPCM(w.buf.Data, interleaved, w.bits)
	return w.enc.Write(w.buf)
}

// Close finalizes the WAV header and closes the file.
func (w *wavSink[F]) Close() error {
	if err := w.enc.Close(); err != nil {
		_ = w.file.Close()
		return fmt.Errorf("failed to finalize WAV file: %w", err)
	}
	return w.file.Close()
}

// toPCM converts samples in 16-bit units to integers of the given bit
// depth, clamping at full scale.
func toPCM[F simdops.Float](dst []int, src []F, bits int) {
	scale := math.Ldexp(1, bits-bitsPerSample16)
	hi := scale*int16Scale - 1
	lo := -scale * int16Scale
	for i, s := range src {
		v := math.Round(float64(s) * scale)
		dst[i] = int(min(max(v, lo), hi))
	}
}

// player streams rendered blocks to the default audio device through a
// ring buffer drained by the oto callback.
type player struct {
	ctx    *oto.Context
	stream *oto.Player
	buf    *pipeline.RingBuffer[float32]
}

func newPlayer(rate, blockSize int) (*player, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: outputChannels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   otoBufferSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open audio device: %w", err)
	}
	<-ready

	buf := pipeline.NewRingBuffer[float32](playbackBlocks * outputChannels * blockSize)
	p := &player{
		ctx:    ctx,
		stream: ctx.NewPlayer(pipeline.NewReader(buf)),
		buf:    buf,
	}
	p.stream.Play()
	return p, nil
}

// Close waits for queued audio to play out and releases the stream.
func (p *player) Close() error {
	p.buf.Close()
	for p.stream.IsPlaying() {
		time.Sleep(drainPoll)
	}
	return p.stream.Close()
}

// playerSink converts blocks in 16-bit units to normalized float32.
type playerSink[F simdops.Float] struct {
	p       *player
	scratch []float32
}

// Write implements pipeline.Sink.
func (s *playerSink[F]) Write(interleaved []F) error {
	if cap(s.scratch) < len(interleaved) {
		s.scratch = make([]float32, len(interleaved))
	}
	out := s.scratch[:len(interleaved)]
	for i, v := range interleaved {
		out[i] = float32(float64(v) / int16Scale)
	}
	return pipeline.BufferSink[float32]{Buffer: s.p.buf}.Write(out)
}
