package model

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is matched by every *IndexError via errors.Is.
var ErrIndexOutOfRange = errors.New("task index out of range")

// ParseError reports malformed user or persisted input: a date that does not
// follow DateLayout, an update string that does not follow the variant's
// grammar, or a save line that cannot be decoded.
type ParseError struct {
	Input  string
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cannot parse %q: %s: %v", e.Input, e.Reason, e.Err)
	}
	return fmt.Sprintf("cannot parse %q: %s", e.Input, e.Reason)
}

func (e *ParseError) Unwrap() error { return e.Err }

func parseErr(input, reason string) error {
	return &ParseError{Input: input, Reason: reason}
}

// IndexError reports a position outside [0, Size).
type IndexError struct {
	Index int
	Size  int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("task index %d out of range (list has %d tasks)", e.Index, e.Size)
}

func (e *IndexError) Is(target error) bool { return target == ErrIndexOutOfRange }

// IOError wraps a failure to read or write the persisted store.
type IOError struct {
	Op  string
	Err error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
