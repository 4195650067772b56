package webaudio

import "io"

// Sink is an audio device pulling rendered PCM. Start hands it the
// context, which yields interleaved float32 little-endian frames through
// io.Reader. Close stops playback; Read returns io.EOF afterwards.
type Sink interface {
	Start(r io.Reader) error
	Close() error
}
