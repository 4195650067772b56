package testutil

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// QuantumFrom builds a quantum whose channels hold copies of data. All
// slices must share a length.
func QuantumFrom(data ...[]float64) *buffer.Quantum {
	if len(data) == 0 {
		return buffer.New(1, 0)
	}
	q := buffer.New(len(data), len(data[0]))
	for ch, samples := range data {
		copy(q.Channel(ch), samples)
	}
	return q
}

// RequireConstant fails t unless every sample of every channel lies
// within eps of value.
func RequireConstant(t *testing.T, channels [][]float64, value, eps float64) {
	t.Helper()
	for ch, samples := range channels {
		for i, v := range samples {
			if math.Abs(v-value) > eps {
				t.Fatalf("channel %d sample %d: got %v, want %v", ch, i, v, value)
			}
		}
	}
}

// RequireSilent fails t if any sample is non-zero.
func RequireSilent(t *testing.T, channels [][]float64) {
	t.Helper()
	RequireConstant(t, channels, 0, 0)
}

// QuantumChannels returns the channel slices of q.
func QuantumChannels(q *buffer.Quantum) [][]float64 {
	out := make([][]float64, q.Channels())
	for ch := range out {
		out[ch] = q.Channel(ch)
	}
	return out
}
