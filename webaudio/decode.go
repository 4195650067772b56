package webaudio

import (
	"io"

	"github.com/cwbudde/algo-webaudio/dsp/resample"
	"github.com/cwbudde/algo-webaudio/webaudio/audiofile"
)

// DecodeAudioData decodes r on a background goroutine and resamples it to
// the context rate. format is a key of audiofile.Default, such as "wav"
// or "mp3".
func (c *BaseAudioContext) DecodeAudioData(r io.Reader, format string) *Future[*AudioBuffer] {
	f := newFuture[*AudioBuffer](c.events)
	go func() {
		b, err := c.decode(r, format)
		if err != nil {
			c.log.Warnf("decoding %s: %v", format, err)
			f.reject(err)
			return
		}
		f.resolve(b)
	}()
	return f
}

func (c *BaseAudioContext) decode(r io.Reader, format string) (*AudioBuffer, error) {
	data, err := audiofile.Decode(r, format)
	if err != nil {
		return nil, err
	}
	channels := data.Channels
	if data.SampleRate != c.sampleRate {
		channels = make([][]float64, len(data.Channels))
		for ch, in := range data.Channels {
			out, err := resample.Convert(in, data.SampleRate, c.sampleRate)
			if err != nil {
				return nil, err
			}
			channels[ch] = out
		}
		c.log.Debugf("resampled %d frames from %v Hz to %v Hz", data.Frames(), data.SampleRate, c.sampleRate)
	}
	return NewAudioBufferFromChannels(channels, c.sampleRate)
}
