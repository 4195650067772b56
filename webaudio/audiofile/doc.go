// Package audiofile decodes compressed and container audio formats into
// planar float64 PCM and encodes PCM back into WAV.
//
// Decoders are looked up by format key in a [Registry]. The default
// registry knows "wav", "aiff", "mp3" and "ogg":
//
//	data, err := audiofile.Decode(f, audiofile.FormatFromPath(name))
package audiofile
