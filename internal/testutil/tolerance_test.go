package testutil

import (
	"testing"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

func TestMaxAbsDiff(t *testing.T) {
	if got := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2}); got != 1 {
		t.Fatalf("MaxAbsDiff = %v, want 1", got)
	}
	if got := MaxAbsDiff([]float64{1, 2}, []float64{1}); got != 0 {
		t.Fatalf("MaxAbsDiff over common prefix = %v, want 0", got)
	}
}

func TestFirstExceeding(t *testing.T) {
	if i, _ := firstExceeding([]float64{1, 2}, []float64{1, 2.0001}, 1e-3); i != -1 {
		t.Fatalf("index = %d, want -1", i)
	}
	if i, d := firstExceeding([]float64{1, 3}, []float64{1, 2}, 1e-3); i != 1 || d != 1 {
		t.Fatalf("index = %d diff = %v", i, d)
	}
}

func TestQuantumFrom(t *testing.T) {
	q := QuantumFrom([]float64{1, 2}, []float64{3, 4})
	if q.Channels() != 2 || q.Len() != 2 {
		t.Fatalf("layout = %dx%d", q.Channels(), q.Len())
	}
	chans := QuantumChannels(q)
	RequireSliceNearlyEqual(t, chans[1], []float64{3, 4}, 0)

	RequireSilent(t, QuantumChannels(buffer.New(2, 8)))
	RequireConstant(t, [][]float64{DC(0.5, 4)}, 0.5, 0)
}
