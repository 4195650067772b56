package webaudio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/cwbudde/algo-webaudio/internal/testutil"
	"github.com/cwbudde/algo-webaudio/webaudio/audiofile"
)

func wavFile(t *testing.T, data [][]float64, rate int) *os.File {
	t.Helper()
	path := filepath.Join(t.TempDir(), "in.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := audiofile.EncodeWAV(f, data, rate, 24); err != nil {
		t.Fatal(err)
	}
	f.Close()

	f, err = os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func decodeWait(t *testing.T, f *Future[*AudioBuffer]) (*AudioBuffer, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return f.Wait(ctx)
}

func TestDecodeAudioData(t *testing.T) {
	c := newOffline(t, 2, 128, 8000)
	signal := testutil.DeterministicSine(200, 8000, 0.5, 400)

	b, err := decodeWait(t, c.DecodeAudioData(wavFile(t, [][]float64{signal}, 8000), "wav"))
	if err != nil {
		t.Fatal(err)
	}
	if b.NumberOfChannels() != 1 || b.Length() != 400 || b.SampleRate() != 8000 {
		t.Fatalf("decoded %dch x %d @ %v", b.NumberOfChannels(), b.Length(), b.SampleRate())
	}
	testutil.RequireSliceNearlyEqual(t, channelData(t, b, 0), signal, 1e-5)
}

func TestDecodeAudioDataResamples(t *testing.T) {
	c := newOffline(t, 1, 128, 16000)
	signal := testutil.DeterministicSine(200, 8000, 0.5, 800)

	b, err := decodeWait(t, c.DecodeAudioData(wavFile(t, [][]float64{signal}, 8000), "wav"))
	if err != nil {
		t.Fatal(err)
	}
	if b.SampleRate() != 16000 || b.Length() != 1600 {
		t.Fatalf("decoded %d frames @ %v, want 1600 @ 16000", b.Length(), b.SampleRate())
	}
	testutil.RequireFinite(t, channelData(t, b, 0))
}

func TestDecodeAudioDataErrors(t *testing.T) {
	c := newOffline(t, 1, 128, 8000)
	_, err := decodeWait(t, c.DecodeAudioData(strings.NewReader("RIFF"), "flac"))
	if !errors.Is(err, audiofile.ErrUnknownFormat) {
		t.Fatalf("unknown format: err = %v", err)
	}
	_, err = decodeWait(t, c.DecodeAudioData(strings.NewReader("not a wav file"), "wav"))
	if !errors.Is(err, audiofile.ErrInvalidFile) {
		t.Fatalf("bad wav: err = %v", err)
	}
}
