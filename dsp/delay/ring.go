// Package delay provides the quantum ring buffer behind DelayNode.
package delay

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-webaudio/dsp/buffer"
)

// Ring is a circular buffer of whole render quanta.
//
// Positions are absolute frame indices since the last Reset. The writer
// appends one quantum per render pass; readers address any frame inside
// the window [Written()-Capacity(), Written()).
type Ring struct {
	quanta      []*buffer.Quantum
	quantumSize int
	written     int64
}

// NewRing returns a ring able to hold maxDelayFrames of history plus the
// quantum being written: ceil(maxDelayFrames/quantumSize)+1 quanta.
func NewRing(maxDelayFrames float64, quantumSize, channels int) (*Ring, error) {
	if quantumSize <= 0 {
		return nil, fmt.Errorf("delay: quantum size must be > 0: %d", quantumSize)
	}
	if maxDelayFrames < 0 || math.IsNaN(maxDelayFrames) || math.IsInf(maxDelayFrames, 0) {
		return nil, fmt.Errorf("delay: invalid max delay: %v", maxDelayFrames)
	}
	if channels < 1 {
		channels = 1
	}

	n := int(math.Ceil(maxDelayFrames/float64(quantumSize))) + 1
	r := &Ring{
		quanta:      make([]*buffer.Quantum, n),
		quantumSize: quantumSize,
	}
	for i := range r.quanta {
		r.quanta[i] = buffer.New(channels, quantumSize)
	}
	return r, nil
}

// Len returns the number of quanta in the ring.
func (r *Ring) Len() int {
	return len(r.quanta)
}

// Capacity returns the total number of frames the ring holds.
func (r *Ring) Capacity() int64 {
	return int64(len(r.quanta) * r.quantumSize)
}

// Channels returns the channel count of the buffered audio.
func (r *Ring) Channels() int {
	return r.quanta[0].Channels()
}

// Written returns the absolute frame position one past the last written frame.
func (r *Ring) Written() int64 {
	return r.written
}

// Write appends q at the write cursor and advances it by one quantum.
// When q's channel count differs from the buffered audio, every slot is
// re-laid out (new channels start silent).
func (r *Ring) Write(q *buffer.Quantum) {
	if q.Channels() != r.Channels() {
		for _, slot := range r.quanta {
			slot.SetChannels(q.Channels())
		}
	}
	slot := r.quanta[int((r.written/int64(r.quantumSize))%int64(len(r.quanta)))]
	for ch := range q.Channels() {
		copy(slot.Channel(ch), q.Channel(ch))
	}
	r.written += int64(r.quantumSize)
}

// Read returns the sample of channel ch at absolute frame pos. Frames that
// were never written or have already been overwritten read as silence.
func (r *Ring) Read(ch int, pos int64) float64 {
	if pos < 0 || pos >= r.written || pos < r.written-r.Capacity() {
		return 0
	}
	idx := pos % r.Capacity()
	slot := r.quanta[idx/int64(r.quantumSize)]
	if ch >= slot.Channels() {
		return 0
	}
	return slot.Channel(ch)[idx%int64(r.quantumSize)]
}

// Reset clears the ring and rewinds the write cursor.
func (r *Ring) Reset() {
	for _, slot := range r.quanta {
		slot.Zero()
	}
	r.written = 0
}
