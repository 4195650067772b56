// Package resample converts sample rates for decoded audio and oversamples
// render quanta for non-linear processing.
//
// [Resampler] is a streaming rational polyphase FIR converter with a Kaiser
// windowed-sinc prototype; [Convert] wraps it for whole buffers and removes
// the filter delay. [Upsampler] and [Downsampler] double or halve the rate
// of fixed-size blocks through an FFT-domain half-band filter, and cascade
// for 4x oversampling.
package resample
