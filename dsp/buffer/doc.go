// Package buffer provides the render quantum: a fixed-length, multi-channel
// block of float64 samples that flows between audio graph nodes.
//
// Every channel of a [Quantum] has the same length, the render quantum size
// (128 frames by default). [Quantum.Mix] and [Quantum.SumFrom] convert
// between channel layouts using the Web Audio up/down-mix rules: the speaker
// matrix for mono, stereo, quad and 5.1, and a discrete copy/zero-fill rule
// for everything else.
//
// 5.1 channel order is L, R, C, LFE, SL, SR. Quad order is L, R, SL, SR.
package buffer
