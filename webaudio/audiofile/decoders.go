package audiofile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
)

const wavFormatPCM = 1

// seekable returns r as an io.ReadSeeker, buffering it in memory when it
// cannot seek. The go-audio decoders need to seek between chunks.
func seekable(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

func intScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return 1 / math.Exp2(float64(bitDepth-1)), nil
	default:
		return 0, fmt.Errorf("%w: %d-bit samples", ErrUnsupported, bitDepth)
	}
}

func fromIntBuffer(buf *goaudio.IntBuffer, bitDepth int) (*Data, error) {
	if buf == nil || buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: missing format", ErrInvalidFile)
	}
	scale, err := intScale(bitDepth)
	if err != nil {
		return nil, err
	}
	data := buf.Data
	if bitDepth == 8 {
		// 8-bit PCM is unsigned.
		data = make([]int, len(buf.Data))
		for i, v := range buf.Data {
			data[i] = v - 128
		}
	}
	return &Data{
		Channels:   deinterleave(data, buf.Format.NumChannels, scale),
		SampleRate: float64(buf.Format.SampleRate),
	}, nil
}

func decodeWAV(r io.Reader) (*Data, error) {
	rs, err := seekable(r)
	if err != nil {
		return nil, err
	}
	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a WAV stream", ErrInvalidFile)
	}
	if dec.WavAudioFormat != wavFormatPCM {
		return nil, fmt.Errorf("%w: WAV format tag %d", ErrUnsupported, dec.WavAudioFormat)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	return fromIntBuffer(buf, int(dec.BitDepth))
}

func decodeAIFF(r io.Reader) (*Data, error) {
	rs, err := seekable(r)
	if err != nil {
		return nil, err
	}
	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an AIFF stream", ErrInvalidFile)
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}
	// AIFF samples are signed at every depth.
	scale, err := intScale(int(dec.BitDepth))
	if err != nil {
		return nil, err
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("%w: missing format", ErrInvalidFile)
	}
	return &Data{
		Channels:   deinterleave(buf.Data, buf.Format.NumChannels, scale),
		SampleRate: float64(buf.Format.SampleRate),
	}, nil
}

// go-mp3 always yields 16-bit little-endian stereo.
func decodeMP3(r io.Reader) (*Data, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}
	samples := make([]int, len(raw)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}
	return &Data{
		Channels:   deinterleave(samples, 2, 1.0/32768),
		SampleRate: float64(dec.SampleRate()),
	}, nil
}

func decodeVorbis(r io.Reader) (*Data, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFile, err)
	}
	if format.Channels < 1 {
		return nil, fmt.Errorf("%w: no channels", ErrInvalidFile)
	}
	return &Data{
		Channels:   deinterleave(samples, format.Channels, 1),
		SampleRate: float64(format.SampleRate),
	}, nil
}
