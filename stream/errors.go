package stream

import (
	"errors"
	"fmt"
)

// ErrNeedMoreData is the suspension signal: the operation could not complete
// with the text pushed so far. Push more text (or Finish) and retry the same
// operation with the same decoder state.
var ErrNeedMoreData = errors.New("stream: need more data")

// ErrFinished is returned by Push after Finish has been called.
var ErrFinished = errors.New("stream: push after finish")

// IsNeedMoreData reports whether err is the suspension signal.
func IsNeedMoreData(err error) bool { return errors.Is(err, ErrNeedMoreData) }

// Code classifies terminal decoding errors.
type Code int

const (
	CodeSyntax           Code = iota // unexpected character where a structural token was required
	CodeType                         // the next value has a different JSON type than requested
	CodeNumber                       // malformed number literal
	CodeRepresentability             // number does not fit the requested native type
	CodeUnexpectedEnd                // input finished in the middle of a value
	CodeDepth                        // nesting exceeded Limits.MaxDepth
	CodeTruncated                    // input exceeded Limits.MaxBytes
)

func (c Code) String() string {
	switch c {
	case CodeSyntax:
		return "syntax"
	case CodeType:
		return "type"
	case CodeNumber:
		return "number"
	case CodeRepresentability:
		return "representability"
	case CodeUnexpectedEnd:
		return "unexpected_end"
	case CodeDepth:
		return "depth"
	case CodeTruncated:
		return "truncated"
	default:
		return fmt.Sprintf("code(%d)", int(c))
	}
}

// Error is a terminal decoding error. Offset is the absolute byte offset into
// the pushed input, or -1 when the error is not tied to a position (number
// projections).
type Error struct {
	Code   Code
	Offset int
	Msg    string
}

func (e *Error) Error() string {
	if e.Offset < 0 {
		return "stream: " + e.Msg
	}
	return fmt.Sprintf("stream: %s at offset %d", e.Msg, e.Offset)
}

// AsError extracts an *Error from err.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

func representabilityError(format string, args ...any) *Error {
	return &Error{Code: CodeRepresentability, Offset: -1, Msg: fmt.Sprintf(format, args...)}
}
