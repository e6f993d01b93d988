// Command render-voice plays a sample file through the voice render core
// and writes the result to a WAV file or the default audio device.
//
// Usage:
//
//	render-voice -key 72 piano.wav out.wav
//	render-voice -loop 1200:5400 -until-release -method 7th pad.ogg out.wav
//	render-voice -chord 0,4,7 -cutoff 800 -sweep 6000 -q 6 saw.wav out.wav
//	render-voice -play -glide -700 lead.mp3                 # Listen instead of writing
//	render-voice -fast -parallel -chord 0,3,7,10,14 pad.wav out.wav
//
// The sample is downmixed to mono. Its root key (-root) plays back at the
// recorded pitch; -key transposes from there. A simple envelope holds the
// note for -duration seconds, then releases over -release seconds.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	rvoice "github.com/tphakala/go-rvoice"
	"github.com/tphakala/go-rvoice/internal/pipeline"
	"github.com/tphakala/go-rvoice/internal/simdops"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

// renderOptions collects the parsed command line.
type renderOptions struct {
	output       string
	play         bool
	key, root    float64
	chord        []float64
	duration     float64
	release      float64
	method       rvoice.Method
	loop         string
	untilRelease bool
	cutoff, q    float64
	sweep        float64
	pan          float64
	gain         float64
	glide        float64
	glideTime    float64
	rate         int
	blockSize    int
	bits         int
	parallel     bool
	verbose      bool
}

func run() error {
	key := flag.Float64("key", defaultKey, "MIDI key to play")
	root := flag.Float64("root", defaultKey, "MIDI key the sample was recorded at")
	chord := flag.String("chord", "0", "Comma-separated semitone offsets from -key, one voice each")
	duration := flag.Float64("duration", defaultDuration, "Seconds the note is held")
	release := flag.Float64("release", defaultRelease, "Release time in seconds")
	method := flag.String("method", "4th", "Interpolation: none, linear, 4th, 7th")
	loop := flag.String("loop", "", "Loop region: empty for none, 'all', or start:end in samples")
	untilRelease := flag.Bool("until-release", false, "Leave the loop at note-off and play the sample out")
	cutoff := flag.Float64("cutoff", 0, "Low-pass cutoff in Hz (0 disables the filter)")
	q := flag.Float64("q", 0, "Filter resonance in dB")
	sweep := flag.Float64("sweep", 0, "Cutoff in Hz reached at note-off (0 keeps -cutoff)")
	pan := flag.Float64("pan", 0, "Pan from -500 (left) to 500 (right)")
	gain := flag.Float64("gain", defaultGain, "Linear output gain")
	glide := flag.Float64("glide", 0, "Portamento start offset in cents")
	glideTime := flag.Float64("glide-time", defaultGlide, "Portamento time in seconds")
	rate := flag.Int("rate", rvoice.RateCD, "Output sample rate in Hz")
	blockSize := flag.Int("block", rvoice.DefaultBlockSize, "Block size in samples (power of two)")
	bits := flag.Int("bits", bitsPerSample16, "Output bit depth: 16 or 24")
	fast := flag.Bool("fast", false, "Use float32 precision")
	parallel := flag.Bool("parallel", false, "Render voices on a worker pool")
	play := flag.Bool("play", false, "Play through the default audio device")
	verbose := flag.Bool("v", false, "Verbose output")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 || len(args) > maxRequiredArgs || (len(args) == 1 && !*play) {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] sample.{wav,ogg,mp3} [output.wav]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s -key 72 piano.wav out.wav            # Transpose up an octave\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -loop all -duration 5 pad.ogg out.wav # Sustain a looped pad\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -play lead.mp3                        # Listen on the audio device\n", os.Args[0])
		return fmt.Errorf("insufficient arguments")
	}

	m, err := rvoice.ParseMethod(*method)
	if err != nil {
		return err
	}
	offsets, err := parseChord(*chord)
	if err != nil {
		return err
	}

	o := &renderOptions{
		play:         *play,
		key:          *key,
		root:         *root,
		chord:        offsets,
		duration:     *duration,
		release:      *release,
		method:       m,
		loop:         *loop,
		untilRelease: *untilRelease,
		cutoff:       *cutoff,
		q:            *q,
		sweep:        *sweep,
		pan:          *pan,
		gain:         *gain,
		glide:        *glide,
		glideTime:    *glideTime,
		rate:         *rate,
		blockSize:    *blockSize,
		bits:         *bits,
		parallel:     *parallel,
		verbose:      *verbose,
	}
	if len(args) > 1 {
		o.output = args[1]
	}

	inputPath := args[0]
	smp, err := loadSample(inputPath)
	if err != nil {
		return err
	}

	if o.verbose {
		log.Printf("Input: %s (%s, %d Hz, %d channels, %d samples)",
			inputPath, smp.format, smp.rate, smp.channels, len(smp.data))
		if o.output != "" {
			log.Printf("Output: %s (%d Hz, %d-bit)", o.output, o.rate, o.bits)
		}
		log.Printf("Interpolation: %s, voices: %d", o.method, len(o.chord))
		if *fast {
			log.Printf("Precision: float32 (fast mode)")
		} else {
			log.Printf("Precision: float64 (high precision)")
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	start := time.Now()
	var stats pipeline.Stats
	if *fast {
		stats, err = render[float32](ctx, smp, o)
	} else {
		stats, err = render[float64](ctx, smp, o)
	}
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	// Print summary
	target := o.output
	if target == "" {
		target = "audio device"
	}
	seconds := float64(stats.Frames) / float64(o.rate)
	fmt.Printf("Rendered %s -> %s\n", filepath.Base(inputPath), filepath.Base(target))
	fmt.Printf("  %d blocks, %d frames (%.2fs at %d Hz)\n", stats.Blocks, stats.Frames, seconds, o.rate)
	fmt.Printf("  Peak: %.1f dBFS\n", 20*math.Log10(max(stats.Peak, 1)/int16Scale))
	if !o.play {
		fmt.Printf("  Duration: %.2fs, Speed: %.1fx realtime\n", elapsed.Seconds(), seconds/elapsed.Seconds())
	}
	return nil
}

// parseChord parses comma-separated semitone offsets.
func parseChord(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("chord offset %q: %w", f, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// secondsToBlocks rounds a duration up to whole blocks.
func secondsToBlocks(sec float64, rate, blockSize int) int {
	return int(math.Ceil(sec * float64(rate) / float64(blockSize)))
}

// render plays the sample through one voice per chord note and streams the
// mix to the configured sinks.
func render[F simdops.Float](ctx context.Context, smp *loadedSample, o *renderOptions) (stats pipeline.Stats, err error) {
	cfg := rvoice.DefaultConfig()
	cfg.BlockSize = o.blockSize
	cfg.OutputRate = float64(o.rate)
	cfg.Interpolation = o.method
	cfg.Parallel = o.parallel
	cfg.AuxBuses = 0
	if err := cfg.Validate(); err != nil {
		return stats, err
	}

	tab, looped, err := smp.table(o.loop)
	if err != nil {
		return stats, err
	}

	mixer, err := rvoice.NewMixer[F](cfg)
	if err != nil {
		return stats, err
	}
	voices, err := newVoices[F](cfg, tab, smp.rate, looped, o)
	if err != nil {
		return stats, err
	}
	for _, v := range voices {
		if err := mixer.Add(v); err != nil {
			return stats, err
		}
	}
	mixer.OnRetire = func(_ *rvoice.Voice[F], s rvoice.Status) {
		if o.verbose {
			log.Printf("Voice retired: %s", s)
		}
	}

	// Build the sink chain
	var sinks pipeline.Tee[F]
	if o.output != "" {
		w, werr := newWAVSink[F](o.output, o.rate, o.bits)
		if werr != nil {
			return stats, werr
		}
		// Close output, capturing close errors on success path (important for WAV header updates)
		defer func() {
			if closeErr := w.Close(); err == nil {
				err = closeErr
			}
		}()
		sinks = append(sinks, w)
	}
	if o.play {
		p, perr := newPlayer(o.rate, o.blockSize)
		if perr != nil {
			return stats, perr
		}
		defer func() {
			if closeErr := p.Close(); err == nil {
				err = closeErr
			}
		}()
		sinks = append(sinks, &playerSink[F]{p: p})
	}
	if len(sinks) == 0 {
		return stats, errors.New("no output: give an output file or -play")
	}

	env := newEnvelope[F](cfg, voices, o)
	return pipeline.Run[F](ctx, mixer, sinks, pipeline.Options{
		BlockSize:  cfg.BlockSize,
		TailBlocks: tailBlocks,
		MaxBlocks:  env.holdBlocks + env.releaseBlocks + tailBlocks,
		OnBlock:    env.commit,
	})
}

// newVoices creates one voice per chord offset.
func newVoices[F simdops.Float](cfg *rvoice.Config, tab *rvoice.Table, sampleRate int, looped bool, o *renderOptions) ([]*rvoice.Voice[F], error) {
	voices := make([]*rvoice.Voice[F], 0, len(o.chord))
	rootHz := rvoice.CentsToHz(rvoice.KeyToCents(o.root))
	glideBlocks := secondsToBlocks(o.glideTime, o.rate, cfg.BlockSize)

	for _, offset := range o.chord {
		v, err := rvoice.NewVoice[F](cfg, tab)
		if err != nil {
			return nil, err
		}
		if err := v.SetRootPitch(rootHz, float64(sampleRate)); err != nil {
			return nil, err
		}
		v.SetPitch(rvoice.KeyToCents(o.key + offset))

		switch {
		case !looped:
			v.SetLoopMode(rvoice.Unlooped)
		case o.untilRelease:
			v.SetLoopMode(rvoice.LoopUntilRelease)
		default:
			v.SetLoopMode(rvoice.LoopDuringRelease)
		}

		v.SetSynthGain(o.gain)
		v.SetPan(F(o.pan))
		if o.glide != 0 {
			v.SetPortamento(glideBlocks, o.glide)
		}
		if o.cutoff > 0 {
			if c, on := rvoice.DesignLowPass[F](o.cutoff, o.q, cfg.OutputRate); on {
				v.SetFilter(c, 0)
			}
		}
		voices = append(voices, v)
	}
	return voices, nil
}
