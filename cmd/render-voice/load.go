package main

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"

	rvoice "github.com/tphakala/go-rvoice"
)

// loadedSample is a decoded mono sample in 16-bit units, with low-order
// bytes when the source was deeper than 16 bits.
type loadedSample struct {
	data     []int16
	lsb      []byte
	rate     int
	channels int
	format   string
}

// loadSample decodes a WAV, Ogg Vorbis or MP3 file and downmixes it to mono.
func loadSample(path string) (*loadedSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sample file: %w", err)
	}
	defer func() { _ = f.Close() }()

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".wav", ".wave":
		return decodeWAV(f)
	case ".ogg", ".oga":
		return decodeVorbis(f)
	case ".mp3":
		return decodeMP3(f)
	default:
		return nil, fmt.Errorf("unsupported sample format %q", ext)
	}
}

func decodeWAV(r io.ReadSeeker) (*loadedSample, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("invalid WAV file")
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read WAV data: %w", err)
	}

	bits := int(dec.BitDepth)
	channels := buf.Format.NumChannels
	if channels < 1 {
		return nil, fmt.Errorf("no channels in WAV file")
	}

	values := make([]float64, len(buf.Data))
	for i, v := range buf.Data {
		values[i] = float64(v)
	}
	mono := rvoice.DownmixToMono(values, channels)

	s := &loadedSample{
		rate:     buf.Format.SampleRate,
		channels: channels,
		format:   fmt.Sprintf("WAV %d-bit", bits),
	}
	switch bits {
	case bitsPerSample16:
		s.data = make([]int16, len(mono))
		for i, v := range mono {
			s.data[i] = clampInt16(math.Round(v))
		}
	case bitsPerSample24, bitsPerSample32:
		shift := bits - bitsPerSample24
		s.data, s.lsb = splitInt24(mono, shift)
	default:
		return nil, fmt.Errorf("unsupported WAV bit depth %d", bits)
	}
	return s, nil
}

// splitInt24 reduces samples to 24 bits by dropping shift low bits and
// splits each into its 16-bit high part and 8-bit low part.
func splitInt24(samples []float64, shift int) ([]int16, []byte) {
	data := make([]int16, len(samples))
	lsb := make([]byte, len(samples))
	scale := math.Ldexp(1, -shift)
	for i, v := range samples {
		v24 := int32(math.Round(v * scale))
		data[i] = int16(v24 >> lsbBits)
		lsb[i] = byte(v24 & lsbMask)
	}
	return data, lsb
}

func decodeVorbis(r io.Reader) (*loadedSample, error) {
	pcm, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode Ogg Vorbis: %w", err)
	}
	if format.Channels < 1 {
		return nil, fmt.Errorf("no channels in Ogg Vorbis stream")
	}

	mono := rvoice.DownmixToMono(pcm, format.Channels)
	data := make([]int16, len(mono))
	for i, v := range mono {
		data[i] = clampInt16(math.Round(float64(v) * int16Scale))
	}
	return &loadedSample{
		data:     data,
		rate:     format.SampleRate,
		channels: format.Channels,
		format:   "Ogg Vorbis",
	}, nil
}

func decodeMP3(r io.Reader) (*loadedSample, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open MP3 stream: %w", err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("failed to decode MP3: %w", err)
	}

	return &loadedSample{
		data:     downmixPCM16(raw, mp3Channels),
		rate:     dec.SampleRate(),
		channels: mp3Channels,
		format:   "MP3",
	}, nil
}

// downmixPCM16 averages interleaved little-endian 16-bit frames to mono.
func downmixPCM16(raw []byte, channels int) []int16 {
	values := make([]float64, len(raw)/bytesPerSample16)
	for i := range values {
		values[i] = float64(int16(binary.LittleEndian.Uint16(raw[i*bytesPerSample16:])))
	}
	mono := rvoice.DownmixToMono(values, channels)
	out := make([]int16, len(mono))
	for i, v := range mono {
		out[i] = clampInt16(math.Round(v))
	}
	return out
}

func clampInt16(v float64) int16 {
	return int16(min(max(v, minInt16), maxInt16))
}

// table builds a sample table with the loop region described by spec:
// empty for an unlooped sample, "all" for the whole sample, or
// "start:end" sample offsets with end exclusive.
func (s *loadedSample) table(spec string) (tab *rvoice.Table, looped bool, err error) {
	end := len(s.data) - 1
	tab = &rvoice.Table{
		Data:      rvoice.PadTable(s.data),
		Start:     0,
		End:       end,
		LoopStart: 0,
		LoopEnd:   end,
	}
	if s.lsb != nil {
		tab.LSB = rvoice.PadLSB(s.lsb)
	}

	switch spec {
	case "":
	case "all":
		looped = true
	default:
		start, stop, ok := strings.Cut(spec, ":")
		if !ok {
			return nil, false, fmt.Errorf("loop %q: want start:end", spec)
		}
		if tab.LoopStart, err = strconv.Atoi(start); err != nil {
			return nil, false, fmt.Errorf("loop start: %w", err)
		}
		if tab.LoopEnd, err = strconv.Atoi(stop); err != nil {
			return nil, false, fmt.Errorf("loop end: %w", err)
		}
		looped = true
	}

	if err := tab.Validate(); err != nil {
		return nil, false, err
	}
	return tab, looped, nil
}
