package audiofile

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

var (
	// ErrUnknownFormat reports a format key with no registered decoder.
	ErrUnknownFormat = errors.New("audiofile: unknown format")
	// ErrInvalidFile reports input that is not a file of the named format.
	ErrInvalidFile = errors.New("audiofile: invalid file")
	// ErrUnsupported reports a valid file using an encoding this package
	// cannot read or write.
	ErrUnsupported = errors.New("audiofile: unsupported encoding")
)

// Data is decoded planar PCM in [-1, 1].
type Data struct {
	Channels   [][]float64
	SampleRate float64
}

// Frames returns the number of frames per channel.
func (d *Data) Frames() int {
	if len(d.Channels) == 0 {
		return 0
	}
	return len(d.Channels[0])
}

// Decoder turns an encoded stream into PCM.
type Decoder interface {
	Decode(r io.Reader) (*Data, error)
}

// DecoderFunc adapts a function to Decoder.
type DecoderFunc func(r io.Reader) (*Data, error)

// Decode calls f(r).
func (f DecoderFunc) Decode(r io.Reader) (*Data, error) {
	return f(r)
}

// Registry maps format keys to decoders. It is safe for concurrent use.
type Registry struct {
	mu     sync.Mutex
	codecs map[string]Decoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

// Register binds format to d, replacing any previous decoder. Keys are
// case-insensitive.
func (r *Registry) Register(format string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.codecs[normalize(format)] = d
}

// Get returns the decoder bound to format.
func (r *Registry) Get(format string) (Decoder, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.codecs[normalize(format)]
	return d, ok
}

// Formats returns the registered keys in sorted order.
func (r *Registry) Formats() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	keys := make([]string, 0, len(r.codecs))
	for k := range r.codecs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Decode reads r with the decoder bound to format.
func (r *Registry) Decode(src io.Reader, format string) (*Data, error) {
	d, ok := r.Get(format)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	data, err := d.Decode(src)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", normalize(format), err)
	}
	if len(data.Channels) == 0 || data.Frames() == 0 {
		return nil, fmt.Errorf("decoding %s: %w: no audio frames", normalize(format), ErrInvalidFile)
	}
	return data, nil
}

// Default holds the built-in decoders.
var Default = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("wav", DecoderFunc(decodeWAV))
	r.Register("wave", DecoderFunc(decodeWAV))
	r.Register("aiff", DecoderFunc(decodeAIFF))
	r.Register("aif", DecoderFunc(decodeAIFF))
	r.Register("mp3", DecoderFunc(decodeMP3))
	r.Register("ogg", DecoderFunc(decodeVorbis))
	r.Register("vorbis", DecoderFunc(decodeVorbis))
	return r
}

// Decode reads r with the default registry.
func Decode(r io.Reader, format string) (*Data, error) {
	return Default.Decode(r, format)
}

// FormatFromPath returns the lower-case extension of path without its dot.
func FormatFromPath(path string) string {
	return normalize(strings.TrimPrefix(filepath.Ext(path), "."))
}

func normalize(format string) string {
	return strings.ToLower(strings.TrimSpace(format))
}

// deinterleave splits interleaved samples into channels, scaling each by
// scale. A trailing partial frame is dropped.
func deinterleave[T int | float32](src []T, channels int, scale float64) [][]float64 {
	frames := len(src) / channels
	out := make([][]float64, channels)
	for ch := range out {
		out[ch] = make([]float64, frames)
	}
	for i := range frames {
		for ch := range channels {
			out[ch][i] = float64(src[i*channels+ch]) * scale
		}
	}
	return out
}
