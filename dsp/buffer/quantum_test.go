package buffer

import (
	"math"
	"testing"
)

func TestNewZeroFilled(t *testing.T) {
	q := New(2, 128)
	if q.Channels() != 2 || q.Len() != 128 {
		t.Fatalf("layout = %dx%d, want 2x128", q.Channels(), q.Len())
	}
	for ch := range q.Channels() {
		if len(q.Channel(ch)) != 128 {
			t.Fatalf("len(channel %d) = %d, want 128", ch, len(q.Channel(ch)))
		}
	}
	if !q.IsSilent() {
		t.Fatal("new quantum should be silent")
	}
}

func TestNewNegativeArguments(t *testing.T) {
	q := New(-1, -5)
	if q.Channels() != 0 || q.Len() != 0 {
		t.Fatalf("layout = %dx%d, want 0x0", q.Channels(), q.Len())
	}
}

func TestChannelsDoNotAlias(t *testing.T) {
	q := New(2, 4)
	q.Channel(0)[3] = 1
	if q.Channel(1)[0] != 0 {
		t.Fatal("writing channel 0 leaked into channel 1")
	}
	c0 := append(q.Channel(0), 9)
	if q.Channel(1)[0] != 0 || len(c0) != 5 {
		t.Fatal("append on channel 0 overwrote channel 1")
	}
}

func TestSetChannelsPreservesData(t *testing.T) {
	q := New(1, 4)
	q.Channel(0)[0] = 0.5
	q.SetChannels(3)
	if q.Channels() != 3 {
		t.Fatalf("Channels() = %d, want 3", q.Channels())
	}
	if q.Channel(0)[0] != 0.5 {
		t.Fatal("existing channel content lost")
	}
	if len(q.Channel(2)) != 4 {
		t.Fatalf("new channel length = %d, want 4", len(q.Channel(2)))
	}
	q.SetChannels(1)
	if q.Channels() != 1 {
		t.Fatalf("Channels() = %d, want 1", q.Channels())
	}
}

func TestCopyFrom(t *testing.T) {
	src := New(2, 3)
	src.Channel(1)[2] = 7
	dst := New(1, 8)
	dst.CopyFrom(src)
	if dst.Channels() != 2 || dst.Len() != 3 {
		t.Fatalf("layout = %dx%d, want 2x3", dst.Channels(), dst.Len())
	}
	if dst.Channel(1)[2] != 7 {
		t.Fatal("content not copied")
	}
	src.Channel(1)[2] = 0
	if dst.Channel(1)[2] != 7 {
		t.Fatal("copy aliases source")
	}
}

func TestInterleave(t *testing.T) {
	q := New(2, 2)
	copy(q.Channel(0), []float64{1, 3})
	copy(q.Channel(1), []float64{2, 4})
	dst := make([]float32, 4)
	if n := q.Interleave(dst); n != 4 {
		t.Fatalf("n = %d, want 4", n)
	}
	want := []float32{1, 2, 3, 4}
	for i := range want {
		if dst[i] != want[i] {
			t.Fatalf("dst = %v, want %v", dst, want)
		}
	}
}

func TestPoolReturnsZeroedQuantum(t *testing.T) {
	p := NewPool()
	q := p.Get(2, 16)
	q.Channel(0)[0] = 1
	p.Put(q)
	r := p.Get(1, 16)
	if r.Channels() != 1 || r.Len() != 16 {
		t.Fatalf("layout = %dx%d, want 1x16", r.Channels(), r.Len())
	}
	if !r.IsSilent() {
		t.Fatal("pooled quantum not zeroed")
	}
	p.Put(nil)
}

// single-sample source where channel k holds k+1.
func ramp(channels int) *Quantum {
	q := New(channels, 1)
	for ch := range channels {
		q.Channel(ch)[0] = float64(ch + 1)
	}
	return q
}

func TestSpeakerMixMatrix(t *testing.T) {
	h := math.Sqrt(0.5)
	tests := []struct {
		in, out int
		want    []float64
	}{
		{1, 1, []float64{1}},
		{1, 2, []float64{1, 1}},
		{1, 4, []float64{1, 1, 0, 0}},
		{1, 6, []float64{0, 0, 1, 0, 0, 0}},
		{2, 1, []float64{1.5}},
		{2, 2, []float64{1, 2}},
		{2, 4, []float64{1, 2, 0, 0}},
		{2, 6, []float64{1, 2, 0, 0, 0, 0}},
		{4, 1, []float64{2.5}},
		{4, 2, []float64{2, 3}},
		{4, 4, []float64{1, 2, 3, 4}},
		{4, 6, []float64{1, 2, 0, 0, 3, 4}},
		{6, 1, []float64{h*3 + 3 + 5.5}},
		{6, 2, []float64{1 + h*8, 2 + h*9}},
		{6, 4, []float64{1 + h*3, 2 + h*3, 5, 6}},
		{6, 6, []float64{1, 2, 3, 4, 5, 6}},
	}
	for _, tt := range tests {
		q := ramp(tt.in)
		q.Mix(tt.out, Speakers)
		if q.Channels() != tt.out {
			t.Fatalf("%d->%d: channels = %d", tt.in, tt.out, q.Channels())
		}
		for ch, w := range tt.want {
			if got := q.Channel(ch)[0]; math.Abs(got-w) > 1e-12 {
				t.Fatalf("%d->%d: channel %d = %v, want %v", tt.in, tt.out, ch, got, w)
			}
		}
	}
}

func TestDiscreteMix(t *testing.T) {
	tests := []struct {
		in, out int
		interp  Interpretation
		want    []float64
	}{
		{2, 1, Discrete, []float64{1}},
		{1, 2, Discrete, []float64{1, 0}},
		{6, 2, Discrete, []float64{1, 2}},
		{3, 5, Speakers, []float64{1, 2, 3, 0, 0}},
		{5, 2, Speakers, []float64{1, 2}},
	}
	for _, tt := range tests {
		q := ramp(tt.in)
		q.Mix(tt.out, tt.interp)
		for ch, w := range tt.want {
			if got := q.Channel(ch)[0]; got != w {
				t.Fatalf("%d->%d (%v): channel %d = %v, want %v", tt.in, tt.out, tt.interp, ch, got, w)
			}
		}
	}
}

func TestSumFromAccumulates(t *testing.T) {
	dst := New(2, 1)
	dst.SumFrom(ramp(1), Speakers)
	dst.SumFrom(ramp(2), Speakers)
	if dst.Channel(0)[0] != 2 || dst.Channel(1)[0] != 3 {
		t.Fatalf("sum = [%v %v], want [2 3]", dst.Channel(0)[0], dst.Channel(1)[0])
	}
}
