package main

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	rvoice "github.com/tphakala/go-rvoice"
)

// writeTestWAV encodes interleaved integer samples to a WAV file.
func writeTestWAV(t *testing.T, path string, rate, bits, channels int, data []int) {
	t.Helper()
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, rate, bits, channels, wavPCMFormat)
	err = enc.Write(&audio.IntBuffer{
		Format:         &audio.Format{NumChannels: channels, SampleRate: rate},
		Data:           data,
		SourceBitDepth: bits,
	})
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())
}

func TestLoadSample_FileNotFound(t *testing.T) {
	_, err := loadSample("/nonexistent/file.wav")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open sample file")
}

func TestLoadSample_InvalidWAV(t *testing.T) {
	// Create a temporary file that's not a WAV
	invalidFile := filepath.Join(t.TempDir(), "invalid.wav")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not a wav file"), 0o644))

	_, err := loadSample(invalidFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid WAV file")
}

func TestLoadSample_InvalidVorbis(t *testing.T) {
	invalidFile := filepath.Join(t.TempDir(), "invalid.ogg")
	require.NoError(t, os.WriteFile(invalidFile, []byte("not an ogg stream"), 0o644))

	_, err := loadSample(invalidFile)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to decode Ogg Vorbis")
}

func TestLoadSample_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.flac")
	require.NoError(t, os.WriteFile(path, []byte("fLaC"), 0o644))

	_, err := loadSample(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported sample format")
}

func TestLoadSample_WAV16Stereo(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stereo.wav")
	writeTestWAV(t, path, 22050, bitsPerSample16, 2, []int{100, 200, -50, -150, 7, 9})

	smp, err := loadSample(path)
	require.NoError(t, err)
	assert.Equal(t, 22050, smp.rate)
	assert.Equal(t, 2, smp.channels)
	assert.Equal(t, []int16{150, -100, 8}, smp.data)
	assert.Nil(t, smp.lsb)
}

func TestLoadSample_WAV24(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deep.wav")
	writeTestWAV(t, path, 48000, bitsPerSample24, 1, []int{0x123456, -0x10000, 0x7fffff})

	smp, err := loadSample(path)
	require.NoError(t, err)
	assert.Equal(t, []int16{0x1234, -0x100, 0x7fff}, smp.data)
	assert.Equal(t, []byte{0x56, 0, 0xff}, smp.lsb)

	tab, _, err := smp.table("")
	require.NoError(t, err)
	assert.True(t, tab.Is24Bit())
	assert.Equal(t, int32(0x123456), tab.Int24(0))
	assert.Equal(t, int32(-0x10000), tab.Int24(1))
}

func TestSplitInt24_From32Bit(t *testing.T) {
	data, lsb := splitInt24([]float64{0x12345678, -256}, bitsPerSample32-bitsPerSample24)
	assert.Equal(t, []int16{0x1234, -1}, data)
	assert.Equal(t, []byte{0x56, 0xff}, lsb)
}

func TestDownmixPCM16(t *testing.T) {
	raw := make([]byte, 8)
	for i, v := range []int16{1000, 3000, -2, -4} {
		binary.LittleEndian.PutUint16(raw[i*2:], uint16(v))
	}
	assert.Equal(t, []int16{2000, -3}, downmixPCM16(raw, mp3Channels))
}

func TestClampInt16(t *testing.T) {
	assert.Equal(t, int16(maxInt16), clampInt16(40000))
	assert.Equal(t, int16(minInt16), clampInt16(-40000))
	assert.Equal(t, int16(-12), clampInt16(-12))
}

func TestSampleTable(t *testing.T) {
	smp := &loadedSample{data: make([]int16, 100), rate: 44100}

	tests := []struct {
		name       string
		spec       string
		wantLooped bool
		wantLoop   [2]int
		wantErr    bool
	}{
		{"unlooped", "", false, [2]int{0, 99}, false},
		{"whole sample", "all", true, [2]int{0, 99}, false},
		{"region", "10:50", true, [2]int{10, 50}, false},
		{"missing colon", "10", false, [2]int{}, true},
		{"bad number", "a:50", false, [2]int{}, true},
		{"empty loop", "40:40", false, [2]int{}, true},
		{"past end", "10:200", false, [2]int{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tab, looped, err := smp.table(tt.spec)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantLooped, looped)
			assert.Equal(t, tt.wantLoop, [2]int{tab.LoopStart, tab.LoopEnd})
			assert.Equal(t, 99, tab.End)
			assert.Len(t, tab.Data, 100+rvoice.GuardSamples)
		})
	}
}
