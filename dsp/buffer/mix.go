package buffer

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// sqrtHalf is the speaker-matrix weight for center and surround channels.
var sqrtHalf = math.Sqrt(0.5)

// SumFrom mixes src into q's channel layout and accumulates the result.
// q keeps its channel count. Both quanta must have the same length.
func (q *Quantum) SumFrom(src *Quantum, interp Interpretation) {
	in := len(src.channels)
	out := len(q.channels)
	if in == 0 || out == 0 {
		return
	}

	if in == out {
		for ch := range out {
			addTo(q.channels[ch], src.channels[ch])
		}
		return
	}

	if interp == Speakers {
		if in < out && q.upMix(src, in, out) {
			return
		}
		if in > out && q.downMix(src, in, out) {
			return
		}
	}

	q.discreteMix(src, in, out)
}

func (q *Quantum) discreteMix(src *Quantum, in, out int) {
	for ch := range min(in, out) {
		addTo(q.channels[ch], src.channels[ch])
	}
}

func (q *Quantum) upMix(src *Quantum, in, out int) bool {
	s := src.channels
	d := q.channels

	switch {
	case in == 1 && (out == 2 || out == 4):
		addTo(d[0], s[0])
		addTo(d[1], s[0])
	case in == 1 && out == 6:
		addTo(d[2], s[0])
	case in == 2 && (out == 4 || out == 6):
		addTo(d[0], s[0])
		addTo(d[1], s[1])
	case in == 4 && out == 6:
		addTo(d[0], s[0])
		addTo(d[1], s[1])
		addTo(d[4], s[2])
		addTo(d[5], s[3])
	default:
		return false
	}
	return true
}

func (q *Quantum) downMix(src *Quantum, in, out int) bool {
	s := src.channels
	d := q.channels

	switch {
	case in == 2 && out == 1:
		m := d[0]
		for i := range m {
			m[i] += 0.5 * (s[0][i] + s[1][i])
		}
	case in == 4 && out == 1:
		m := d[0]
		for i := range m {
			m[i] += 0.25 * (s[0][i] + s[1][i] + s[2][i] + s[3][i])
		}
	case in == 6 && out == 1:
		m := d[0]
		for i := range m {
			m[i] += sqrtHalf*(s[0][i]+s[1][i]) + s[2][i] + 0.5*(s[4][i]+s[5][i])
		}
	case in == 4 && out == 2:
		for i := range d[0] {
			d[0][i] += 0.5 * (s[0][i] + s[2][i])
			d[1][i] += 0.5 * (s[1][i] + s[3][i])
		}
	case in == 6 && out == 2:
		for i := range d[0] {
			d[0][i] += s[0][i] + sqrtHalf*(s[2][i]+s[4][i])
			d[1][i] += s[1][i] + sqrtHalf*(s[2][i]+s[5][i])
		}
	case in == 6 && out == 4:
		for i := range d[0] {
			d[0][i] += s[0][i] + sqrtHalf*s[2][i]
			d[1][i] += s[1][i] + sqrtHalf*s[2][i]
			d[2][i] += s[4][i]
			d[3][i] += s[5][i]
		}
	default:
		return false
	}
	return true
}

func addTo(dst, src []float64) {
	n := min(len(dst), len(src))
	vecmath.AddBlockInPlace(dst[:n], src[:n])
}
