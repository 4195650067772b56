package window

import "errors"

var (
	// ErrInvalidLength is returned for a window size below 1.
	ErrInvalidLength = errors.New("window: size must be > 0")
	// ErrInvalidParameter is returned for an out-of-range shape parameter.
	ErrInvalidParameter = errors.New("window: invalid shape parameter")
	// ErrMismatchedLength is returned when samples and coefficients differ
	// in length.
	ErrMismatchedLength = errors.New("window: samples and coefficients must have same length")
)
