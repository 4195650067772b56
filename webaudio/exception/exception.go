// Package exception defines the error kinds raised by the audio graph API.
//
// Every validation failure wraps exactly one of the sentinel errors below,
// so callers test for a kind with errors.Is or [KindOf]:
//
//	if errors.Is(err, exception.ErrNotSupported) { ... }
package exception

import (
	"errors"
	"fmt"
)

// Sentinel errors, one per kind.
var (
	// ErrRange reports a numeric argument outside its allowed domain.
	ErrRange = errors.New("RangeError")
	// ErrInvalidState reports an operation that the current lifecycle
	// state does not allow.
	ErrInvalidState = errors.New("InvalidStateError")
	// ErrNotSupported reports a structurally unsupported configuration.
	ErrNotSupported = errors.New("NotSupportedError")
	// ErrIndexSize reports an input or output index out of bounds.
	ErrIndexSize = errors.New("IndexSizeError")
	// ErrInvalidAccess reports a cross-context connection or a missing
	// connection on disconnect.
	ErrInvalidAccess = errors.New("InvalidAccessError")
)

// Kind classifies an error by its sentinel.
type Kind int

const (
	KindNone Kind = iota
	KindRange
	KindInvalidState
	KindNotSupported
	KindIndexSize
	KindInvalidAccess
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "None"
	case KindRange:
		return ErrRange.Error()
	case KindInvalidState:
		return ErrInvalidState.Error()
	case KindNotSupported:
		return ErrNotSupported.Error()
	case KindIndexSize:
		return ErrIndexSize.Error()
	case KindInvalidAccess:
		return ErrInvalidAccess.Error()
	default:
		return "Other"
	}
}

// KindOf returns the kind err wraps. A nil error is KindNone; an error
// wrapping none of the sentinels is KindOther.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, ErrRange):
		return KindRange
	case errors.Is(err, ErrInvalidState):
		return KindInvalidState
	case errors.Is(err, ErrNotSupported):
		return KindNotSupported
	case errors.Is(err, ErrIndexSize):
		return KindIndexSize
	case errors.Is(err, ErrInvalidAccess):
		return KindInvalidAccess
	default:
		return KindOther
	}
}

// Range returns an ErrRange with a formatted message.
func Range(format string, args ...any) error {
	return wrap(ErrRange, format, args)
}

// InvalidState returns an ErrInvalidState with a formatted message.
func InvalidState(format string, args ...any) error {
	return wrap(ErrInvalidState, format, args)
}

// NotSupported returns an ErrNotSupported with a formatted message.
func NotSupported(format string, args ...any) error {
	return wrap(ErrNotSupported, format, args)
}

// IndexSize returns an ErrIndexSize with a formatted message.
func IndexSize(format string, args ...any) error {
	return wrap(ErrIndexSize, format, args)
}

// InvalidAccess returns an ErrInvalidAccess with a formatted message.
func InvalidAccess(format string, args ...any) error {
	return wrap(ErrInvalidAccess, format, args)
}

// Wrap tags cause with kind, keeping cause in the chain.
func Wrap(kind, cause error) error {
	if cause == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", kind, cause)
}

func wrap(kind error, format string, args []any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
