// Package iir provides a general-order direct-form IIR filter runtime.
//
// A [Filter] applies user-supplied feedforward and feedback coefficient
// arrays of up to [MaxOrder] taps each, keeping input and output history in
// circular delay lines. The feedback array is normalized so that a[0] = 1.
package iir
