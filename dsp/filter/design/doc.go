// Package design derives biquad coefficients for the eight filter types of
// a Web Audio BiquadFilterNode.
//
// The formulas follow the Audio EQ Cookbook as adopted by the Web Audio
// API: lowpass and highpass interpret Q in dB, the shelves use a fixed
// slope of 1, and the remaining types use Q as a linear quality factor.
// Frequencies at DC, Nyquist and a zero Q resolve to the limit of the
// transfer function instead of producing NaN coefficients.
package design
