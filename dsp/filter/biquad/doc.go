// Package biquad provides the second-order IIR section used by
// BiquadFilterNode.
//
// A [Section] runs Direct Form I with a three-tap input history and a
// three-tap output history per channel, so its coefficients may change on
// every sample without disturbing the stored signal history. This is what
// sample-accurate automation of frequency, detune, Q and gain requires.
//
// Coefficient design lives in dsp/filter/design.
package biquad
