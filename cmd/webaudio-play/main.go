// Command webaudio-play plays an audio scene on the default output device
// and shows a level meter and spectrum in the terminal.
//
// Usage:
//
//	webaudio-play [flags] [-scene file.json | -demo name]
//
// Keys: space pauses and resumes, +/- change the master gain, q or Esc
// quits.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/pion/logging"

	"github.com/cwbudde/algo-webaudio/webaudio"
	"github.com/cwbudde/algo-webaudio/webaudio/scene"
	"github.com/cwbudde/algo-webaudio/webaudio/sink"
)

func main() {
	scenePath := flag.String("scene", "", "scene description (JSON)")
	demo := flag.String("demo", "filter", "built-in scene to play when -scene is not set")
	rate := flag.Int("rate", 48000, "device sample rate in Hz")
	channels := flag.Int("channels", 2, "device channel count (1 or 2)")
	latency := flag.Duration("latency", 40*time.Millisecond, "device buffer duration")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: webaudio-play [flags]\n\n")
		fmt.Fprintf(os.Stderr, "Plays an audio scene in real time.\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nBuilt-in scenes: %s\n", strings.Join(scene.DemoNames(), ", "))
	}
	flag.Parse()

	raw, err := readScene(*scenePath, *demo)
	if err != nil {
		fail(err)
	}

	out, err := sink.NewOto(sink.Config{SampleRate: *rate, Channels: *channels, BufferDuration: *latency})
	if err != nil {
		fail(err)
	}

	loggers := logging.NewDefaultLoggerFactory()
	loggers.DefaultLogLevel = logging.LogLevelError
	ctx, err := webaudio.NewAudioContext(
		webaudio.WithSampleRate(float64(*rate)),
		webaudio.WithChannels(*channels),
		webaudio.WithSink(out),
		webaudio.WithLoggerFactory(loggers),
	)
	if err != nil {
		fail(err)
	}

	p, err := newPlayer(ctx)
	if err != nil {
		fail(err)
	}
	if _, err := scene.Load(ctx.BaseAudioContext, raw, scene.WithDestination(p.master)); err != nil {
		fail(err)
	}
	if _, err := ctx.Resume().Wait(context.Background()); err != nil {
		fail(err)
	}

	runErr := runTUI(p)
	_, closeErr := ctx.Close().Wait(context.Background())
	if runErr != nil {
		fail(runErr)
	}
	if closeErr != nil {
		fail(closeErr)
	}
}

func readScene(path, demo string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	raw, ok := scene.Demo(demo)
	if !ok {
		return nil, fmt.Errorf("unknown demo %q", demo)
	}
	return raw, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
