package audiofile

import (
	"fmt"
	"io"
	"math"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// EncodeWAV writes channels as integer PCM WAV. bitDepth is 16, 24 or 32;
// samples are clipped to [-1, 1].
func EncodeWAV(w io.WriteSeeker, channels [][]float64, sampleRate, bitDepth int) error {
	if len(channels) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidFile)
	}
	switch bitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("%w: %d-bit WAV output", ErrUnsupported, bitDepth)
	}

	frames := len(channels[0])
	for ch, c := range channels {
		if len(c) != frames {
			return fmt.Errorf("%w: channel %d has %d frames, want %d", ErrInvalidFile, ch, len(c), frames)
		}
	}

	peak := math.Exp2(float64(bitDepth-1)) - 1
	nch := len(channels)
	buf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: nch, SampleRate: sampleRate},
		Data:           make([]int, frames*nch),
		SourceBitDepth: bitDepth,
	}
	for i := range frames {
		for ch, c := range channels {
			x := max(-1, min(1, c[i]))
			if math.IsNaN(x) {
				x = 0
			}
			buf.Data[i*nch+ch] = int(math.Round(x * peak))
		}
	}

	enc := wav.NewEncoder(w, sampleRate, bitDepth, nch, wavFormatPCM)
	if err := enc.Write(buf); err != nil {
		_ = enc.Close()
		return err
	}
	return enc.Close()
}
