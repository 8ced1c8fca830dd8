package reconcile

import (
	"errors"
	"fmt"
)

// Errors reported by the account model and the line-format decoder.
var (
	ErrMalformedLine    = errors.New("malformed line")
	ErrUnknownOperation = errors.New("unknown operation")
	ErrInvalidOffset    = errors.New("invalid day offset")
	ErrOutOfRange       = errors.New("day range out of range")
	ErrFrozen           = errors.New("account is frozen")
)

// LineError locates a decoding failure in the input.
type LineError struct {
	Line int    // 1-based line number in the input.
	Text string // Text is the offending line, trimmed.
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *LineError) Unwrap() error { return e.Err }
