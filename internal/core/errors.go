package core

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedLine marks a line that does not have exactly four fields.
	ErrMalformedLine = errors.New("malformed line")
	// ErrUnrecognizedCategory marks a line whose category token is not known.
	ErrUnrecognizedCategory = errors.New("unrecognized category")
	// ErrNumericFormat marks a consumption or cost field that is not a valid number.
	ErrNumericFormat = errors.New("numeric format error")
	// ErrInsufficientData is returned when fewer than two records are compared.
	ErrInsufficientData = errors.New("insufficient data: at least two records are required")
)

// LineError reports a problem with one input line.
type LineError struct {
	Line int    // 1-based line number
	Text string // raw line content
	Err  error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *LineError) Unwrap() error {
	return e.Err
}

// IOError wraps a file open, read or write failure with the path involved.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error {
	return e.Err
}

// IsLineError reports whether err is a LineError wrapping target.
func IsLineError(err, target error) bool {
	var le *LineError
	return errors.As(err, &le) && errors.Is(le.Err, target)
}
