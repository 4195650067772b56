package buffer

// Interpretation selects how channels are mapped when layouts differ.
type Interpretation int

const (
	// Speakers uses the Web Audio speaker up/down-mix matrix for
	// mono/stereo/quad/5.1 and falls back to Discrete otherwise.
	Speakers Interpretation = iota
	// Discrete copies matching channels and zero-fills or drops the rest.
	Discrete
)

// String returns the Web Audio name of the interpretation.
func (i Interpretation) String() string {
	if i == Discrete {
		return "discrete"
	}
	return "speakers"
}

// Quantum is a block of samples with a fixed number of frames per channel.
type Quantum struct {
	channels [][]float64
	length   int
}

// New returns a zero-filled quantum. Negative arguments are treated as 0.
func New(channels, length int) *Quantum {
	if channels < 0 {
		channels = 0
	}
	if length < 0 {
		length = 0
	}
	q := &Quantum{length: length}
	q.channels = allocChannels(channels, length)
	return q
}

func allocChannels(channels, length int) [][]float64 {
	backing := make([]float64, channels*length)
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = backing[ch*length : (ch+1)*length : (ch+1)*length]
	}
	return out
}

// Channels returns the number of channels.
func (q *Quantum) Channels() int {
	return len(q.channels)
}

// Len returns the number of frames per channel.
func (q *Quantum) Len() int {
	return q.length
}

// Channel returns the samples of channel ch. The slice aliases the quantum.
func (q *Quantum) Channel(ch int) []float64 {
	return q.channels[ch]
}

// Zero clears every channel.
func (q *Quantum) Zero() {
	for _, c := range q.channels {
		clear(c)
	}
}

// IsSilent reports whether every sample is exactly zero.
func (q *Quantum) IsSilent() bool {
	for _, c := range q.channels {
		for _, v := range c {
			if v != 0 {
				return false
			}
		}
	}
	return true
}

// SetChannels changes the channel count. Existing channels are preserved,
// new channels are zeroed. The content is not mixed; see Mix for that.
func (q *Quantum) SetChannels(n int) {
	if n < 0 {
		n = 0
	}
	if n == len(q.channels) {
		return
	}
	if n < len(q.channels) {
		q.channels = q.channels[:n]
		return
	}
	for len(q.channels) < n {
		q.channels = append(q.channels, make([]float64, q.length))
	}
}

// CopyFrom makes q an exact copy of src, adopting its channel count.
func (q *Quantum) CopyFrom(src *Quantum) {
	if q.length != src.length {
		q.length = src.length
		q.channels = allocChannels(len(src.channels), src.length)
	} else {
		q.SetChannels(len(src.channels))
	}
	for ch, c := range src.channels {
		copy(q.channels[ch], c)
	}
}

// Mix converts q in place to the requested channel count. The result is
// always a valid quantum; unsupported speaker transitions mix discretely.
func (q *Quantum) Mix(channels int, interp Interpretation) {
	if channels == len(q.channels) {
		return
	}
	dst := New(channels, q.length)
	dst.SumFrom(q, interp)
	q.channels = dst.channels
}

// Interleave writes the quantum into dst as interleaved float32 frames and
// returns the number of values written.
func (q *Quantum) Interleave(dst []float32) int {
	nch := len(q.channels)
	if nch == 0 {
		return 0
	}
	frames := min(q.length, len(dst)/nch)
	for i := range frames {
		for ch, c := range q.channels {
			dst[i*nch+ch] = float32(c[i])
		}
	}
	return frames * nch
}
