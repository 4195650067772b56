// Command webaudio-render renders an audio scene offline and writes it to
// a WAV file.
//
// Usage:
//
//	webaudio-render [flags] [-scene file.json | -demo name]
//
// Examples:
//
//	webaudio-render -demo filter -o filter.wav
//	webaudio-render -scene reverb.json -buffer ir=hall.wav -duration 4
//	webaudio-render -list
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-vecmath"
	"github.com/pion/logging"

	"github.com/cwbudde/algo-webaudio/dsp/core"
	"github.com/cwbudde/algo-webaudio/webaudio"
	"github.com/cwbudde/algo-webaudio/webaudio/audiofile"
	"github.com/cwbudde/algo-webaudio/webaudio/scene"
)

type bufferFlags map[string]string

func (b bufferFlags) String() string {
	parts := make([]string, 0, len(b))
	for k, v := range b {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (b bufferFlags) Set(s string) error {
	name, path, ok := strings.Cut(s, "=")
	if !ok || name == "" || path == "" {
		return errors.New("want name=path")
	}
	b[name] = path
	return nil
}

type options struct {
	scenePath string
	demo      string
	out       string
	rate      float64
	channels  int
	duration  float64
	bits      int
	buffers   bufferFlags
	verbose   bool
}

func main() {
	opts := options{buffers: bufferFlags{}}
	flag.StringVar(&opts.scenePath, "scene", "", "scene description (JSON)")
	flag.StringVar(&opts.demo, "demo", "tone", "built-in scene to render when -scene is not set")
	flag.StringVar(&opts.out, "o", "out.wav", "output WAV file")
	flag.Float64Var(&opts.rate, "rate", 44100, "sample rate in Hz")
	flag.IntVar(&opts.channels, "channels", 2, "output channel count")
	flag.Float64Var(&opts.duration, "duration", 2, "length in seconds")
	flag.IntVar(&opts.bits, "bits", 24, "WAV bit depth (16, 24 or 32)")
	flag.Var(opts.buffers, "buffer", "decode an audio file for the scene as name=path (repeatable)")
	flag.BoolVar(&opts.verbose, "v", false, "log context activity")
	list := flag.Bool("list", false, "list built-in scenes")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: webaudio-render [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Renders an audio scene offline and writes a WAV file.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nBuilt-in scenes: %s\n", strings.Join(scene.DemoNames(), ", "))
	}
	flag.Parse()

	if *list {
		for _, n := range scene.DemoNames() {
			fmt.Println(n)
		}
		return
	}

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(opts options) error {
	raw, err := loadScene(opts)
	if err != nil {
		return err
	}

	loggers := logging.NewDefaultLoggerFactory()
	if opts.verbose {
		loggers.DefaultLogLevel = logging.LogLevelDebug
	}

	length := int(math.Round(opts.duration * opts.rate))
	ctx, err := webaudio.NewOfflineAudioContext(opts.channels, length, opts.rate, webaudio.WithLoggerFactory(loggers))
	if err != nil {
		return err
	}

	buffers, err := decodeBuffers(ctx.BaseAudioContext, opts.buffers)
	if err != nil {
		return err
	}
	if _, err := scene.Load(ctx.BaseAudioContext, raw, scene.WithBuffers(buffers)); err != nil {
		return err
	}

	rendered, err := ctx.StartRendering().Wait(context.Background())
	if err != nil {
		return err
	}

	if err := writeWAV(opts.out, rendered, opts.bits); err != nil {
		return err
	}
	return printSummary(opts.out, rendered)
}

func loadScene(opts options) ([]byte, error) {
	if opts.scenePath != "" {
		return os.ReadFile(opts.scenePath)
	}
	raw, ok := scene.Demo(opts.demo)
	if !ok {
		return nil, fmt.Errorf("unknown demo %q (use -list to see available)", opts.demo)
	}
	return raw, nil
}

func decodeBuffers(ctx *webaudio.BaseAudioContext, paths bufferFlags) (map[string]*webaudio.AudioBuffer, error) {
	out := make(map[string]*webaudio.AudioBuffer, len(paths))
	for name, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		b, err := ctx.DecodeAudioData(f, audiofile.FormatFromPath(path)).Wait(context.Background())
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("buffer %s: %w", name, err)
		}
		out[name] = b
	}
	return out, nil
}

func writeWAV(path string, b *webaudio.AudioBuffer, bits int) error {
	channels := make([][]float64, b.NumberOfChannels())
	for ch := range channels {
		data, err := b.GetChannelData(ch)
		if err != nil {
			return err
		}
		channels[ch] = data
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := audiofile.EncodeWAV(f, channels, int(b.SampleRate()), bits); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func printSummary(path string, b *webaudio.AudioBuffer) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "File\tChannel\tFrames\tPeak [dBFS]\tRMS [dBFS]\n")
	fmt.Fprintf(tw, "----\t-------\t------\t-----------\t----------\n")
	for ch := 0; ch < b.NumberOfChannels(); ch++ {
		data, err := b.GetChannelData(ch)
		if err != nil {
			return err
		}
		peak, rms := levels(data)
		fmt.Fprintf(tw, "%s\t%d\t%d\t%.2f\t%.2f\n", path, ch, len(data), core.LinearToDB(peak), core.LinearToDB(rms))
	}
	return tw.Flush()
}

func levels(data []float64) (peak, rms float64) {
	if len(data) == 0 {
		return 0, 0
	}
	peak = vecmath.MaxAbs(data)
	rms = math.Sqrt(vecmath.DotProduct(data, data) / float64(len(data)))
	return peak, rms
}
