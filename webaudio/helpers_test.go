package webaudio

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pion/logging"

	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

const testRate = 44100.0

// quietLoggers keeps expected warnings out of the test output.
func quietLoggers() logging.LoggerFactory {
	f := logging.NewDefaultLoggerFactory()
	f.DefaultLogLevel = logging.LogLevelDisabled
	return f
}

func newOffline(t *testing.T, channels, length int, sampleRate float64) *OfflineAudioContext {
	t.Helper()
	c, err := NewOfflineAudioContext(channels, length, sampleRate, WithLoggerFactory(quietLoggers()))
	if err != nil {
		t.Fatalf("NewOfflineAudioContext: %v", err)
	}
	return c
}

func renderOffline(t *testing.T, c *OfflineAudioContext) *AudioBuffer {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	b, err := c.StartRendering().Wait(ctx)
	if err != nil {
		t.Fatalf("StartRendering: %v", err)
	}
	c.Close()
	return b
}

func channelData(t *testing.T, b *AudioBuffer, ch int) []float64 {
	t.Helper()
	data, err := b.GetChannelData(ch)
	if err != nil {
		t.Fatal(err)
	}
	return data
}

func constantSource(t *testing.T, c *BaseAudioContext, v float64) *ConstantSourceNode {
	t.Helper()
	s, err := c.CreateConstantSource(ConstantSourceOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Offset.SetValue(v); err != nil {
		t.Fatal(err)
	}
	if err := s.Start(0); err != nil {
		t.Fatal(err)
	}
	return s
}

// bufferSource plays data once from time 0.
func bufferSource(t *testing.T, c *BaseAudioContext, data ...[]float64) *AudioBufferSourceNode {
	t.Helper()
	b, err := NewAudioBufferFromChannels(data, c.SampleRate())
	if err != nil {
		t.Fatal(err)
	}
	s, err := c.CreateBufferSource(AudioBufferSourceOptions{Buffer: b})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(0); err != nil {
		t.Fatal(err)
	}
	return s
}

func connect(t *testing.T, src, dst Node) {
	t.Helper()
	if err := src.Base().Connect(dst, 0, 0); err != nil {
		t.Fatalf("connect %s -> %s: %v", src.Base().Kind(), dst.Base().Kind(), err)
	}
}

func gainNode(t *testing.T, c *BaseAudioContext, g float64) *GainNode {
	t.Helper()
	n, err := c.CreateGain(GainOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if err := n.Gain.SetValue(g); err != nil {
		t.Fatal(err)
	}
	return n
}

func requireKind(t *testing.T, err error, want exception.Kind) {
	t.Helper()
	if got := exception.KindOf(err); got != want {
		t.Fatalf("error kind = %v (%v), want %v", got, err, want)
	}
}

var errTestSink = errors.New("sink failed")
