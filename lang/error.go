package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
var (
	ErrLex        = NewError("lexical error")
	ErrParse      = NewError("syntax error")
	ErrReadSource = NewError("failed to read source")
)

// Error represents an error with an optional source interval and structured
// logging attributes. It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg      string
	err      error       // Wrapped error (for errors.Unwrap)
	attrs    []slog.Attr // Attributes for structured logging
	interval Interval
	located  bool
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg, interval: emptyInterval}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err, interval: emptyInterval}
}

// Error implements the error interface.
func (e *Error) Error() string {
	// Build error message using the first available format,
	// depending on which fields are set:
	//
	//   1. "<msg>: <err>" // base and wrapped error both set
	//   2. "<msg>"        // wrapped error is nil
	//   3. "<err>"        // base error message is empty
	//   4. ""             // no fields are set
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the same sentinel as e.
// Copies made by [Error.With], [Error.Wrap], and [Error.At] share the
// sentinel's message and match it.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.err == nil && t.msg != "" && t.msg == e.msg
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.located {
		attrs = append(attrs, slog.Group("interval",
			slog.Int("min", e.interval.Min),
			slog.Int("max", e.interval.Max),
		))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:      e.msg,
		err:      err,
		attrs:    e.attrs, // Share attrs
		interval: e.interval,
		located:  e.located,
	}
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:      e.msg,
		err:      e.err,
		attrs:    newAttrs,
		interval: e.interval,
		located:  e.located,
	}
}

// At returns a copy of the error located at the given source interval.
func (e *Error) At(iv Interval) *Error {
	return &Error{
		msg:      e.msg,
		err:      e.err,
		attrs:    e.attrs,
		interval: iv,
		located:  true,
	}
}

// Interval returns the source interval the error refers to, and whether the
// error carries one.
func (e *Error) Interval() (Interval, bool) {
	return e.interval, e.located
}

// Position formats the error with a 1-based line and column resolved against
// source. Errors without an interval format as [Error.Error].
func (e *Error) Position(source string) string {
	if !e.located {
		return e.Error()
	}

	line, col := e.interval.Position(source)

	return e.Error() +
		" (line " + strconv.Itoa(line) + ", column " + strconv.Itoa(col) + ")"
}

// detail is a plain message wrapped by the sentinel errors.
type detail string

func (d detail) Error() string { return string(d) }

// lexError returns an [ErrLex] located at iv.
func lexError(msg string, iv Interval) *Error {
	return ErrLex.Wrap(detail(msg)).At(iv)
}

// parseError returns an [ErrParse] located at iv.
func parseError(msg string, iv Interval) *Error {
	return ErrParse.Wrap(detail(msg)).At(iv)
}
