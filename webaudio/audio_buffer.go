package webaudio

import (
	"github.com/cwbudde/algo-webaudio/webaudio/exception"
)

// AudioBufferOptions describes a new AudioBuffer.
type AudioBufferOptions struct {
	NumberOfChannels int
	Length           int
	SampleRate       float64
}

// AudioBuffer is planar PCM held in memory.
type AudioBuffer struct {
	channels   [][]float64
	length     int
	sampleRate float64
}

// NewAudioBuffer returns a silent buffer. Channel counts outside [1, 32],
// a length below 1 or a sample rate outside [3000, 768000] fail with
// NotSupportedError.
func NewAudioBuffer(opts AudioBufferOptions) (*AudioBuffer, error) {
	if err := validateBufferShape(opts.NumberOfChannels, opts.Length, opts.SampleRate); err != nil {
		return nil, err
	}
	b := &AudioBuffer{
		channels:   make([][]float64, opts.NumberOfChannels),
		length:     opts.Length,
		sampleRate: opts.SampleRate,
	}
	for ch := range b.channels {
		b.channels[ch] = make([]float64, opts.Length)
	}
	return b, nil
}

// NewAudioBufferFromChannels wraps data without copying. Every channel
// must have the same length.
func NewAudioBufferFromChannels(data [][]float64, sampleRate float64) (*AudioBuffer, error) {
	length := 0
	if len(data) > 0 {
		length = len(data[0])
	}
	if err := validateBufferShape(len(data), length, sampleRate); err != nil {
		return nil, err
	}
	for ch, c := range data {
		if len(c) != length {
			return nil, exception.NotSupported("channel %d has %d frames, want %d", ch, len(c), length)
		}
	}
	return &AudioBuffer{channels: data, length: length, sampleRate: sampleRate}, nil
}

func validateBufferShape(channels, length int, sampleRate float64) error {
	switch {
	case channels < 1 || channels > MaxChannels:
		return exception.NotSupported("channel count %d outside [1, %d]", channels, MaxChannels)
	case length < 1:
		return exception.NotSupported("buffer length %d must be at least 1", length)
	case !(sampleRate >= MinSampleRate && sampleRate <= MaxSampleRate):
		return exception.NotSupported("sample rate %v outside [%v, %v]", sampleRate, MinSampleRate, MaxSampleRate)
	}
	return nil
}

func (b *AudioBuffer) NumberOfChannels() int { return len(b.channels) }
func (b *AudioBuffer) Length() int           { return b.length }
func (b *AudioBuffer) SampleRate() float64   { return b.sampleRate }

// Duration returns the length in seconds.
func (b *AudioBuffer) Duration() float64 {
	return float64(b.length) / b.sampleRate
}

// GetChannelData returns the samples of channel ch. The slice aliases the
// buffer.
func (b *AudioBuffer) GetChannelData(ch int) ([]float64, error) {
	if ch < 0 || ch >= len(b.channels) {
		return nil, exception.IndexSize("channel %d outside [0, %d)", ch, len(b.channels))
	}
	return b.channels[ch], nil
}

// CopyFromChannel copies channel ch, starting at frame start, into dst.
func (b *AudioBuffer) CopyFromChannel(dst []float64, ch, start int) error {
	if ch < 0 || ch >= len(b.channels) {
		return exception.IndexSize("channel %d outside [0, %d)", ch, len(b.channels))
	}
	if start < 0 {
		return exception.IndexSize("negative start frame %d", start)
	}
	if start < b.length {
		copy(dst, b.channels[ch][start:])
	}
	return nil
}

// CopyToChannel copies src into channel ch starting at frame start.
// Frames past the end of the buffer are dropped.
func (b *AudioBuffer) CopyToChannel(src []float64, ch, start int) error {
	if ch < 0 || ch >= len(b.channels) {
		return exception.IndexSize("channel %d outside [0, %d)", ch, len(b.channels))
	}
	if start < 0 {
		return exception.IndexSize("negative start frame %d", start)
	}
	if start < b.length {
		copy(b.channels[ch][start:], src)
	}
	return nil
}

// sample returns frame i of channel ch, or 0 outside the buffer.
func (b *AudioBuffer) sample(ch, i int) float64 {
	if i < 0 || i >= b.length {
		return 0
	}
	return b.channels[ch][i]
}
