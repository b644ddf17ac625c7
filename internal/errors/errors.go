// Package errors defines the failure kinds of a launch session and helpers to
// classify them.
//
// Every failure is either a plain wrapped error or an *Error carrying a Kind.
// Callers test the kind with the sentinel values:
//
//	if errors.Is(err, errors.ErrPrecondition) { ... }
package errors

import (
	"errors"
	"fmt"
)

// Re-export standard library functions so callers only import this package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Kind classifies a failure.
type Kind int

const (
	// KindPrecondition covers invalid input detected before anything is spawned.
	KindPrecondition Kind = iota + 1
	// KindToolUnavailable covers a missing binary or a refused IPC connection.
	KindToolUnavailable
	// KindDiscoveryTimeout covers a window manager socket that never appeared.
	KindDiscoveryTimeout
	// KindEventStream covers a broken or unreadable event subscription.
	KindEventStream
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindPrecondition:
		return "precondition failed"
	case KindToolUnavailable:
		return "tool unavailable"
	case KindDiscoveryTimeout:
		return "discovery timed out"
	case KindEventStream:
		return "event stream error"
	default:
		return "unknown"
	}
}

// Sentinels matching each kind.
var (
	ErrPrecondition     = &Error{Kind: KindPrecondition}
	ErrToolUnavailable  = &Error{Kind: KindToolUnavailable}
	ErrDiscoveryTimeout = &Error{Kind: KindDiscoveryTimeout}
	ErrEventStream      = &Error{Kind: KindEventStream}
)

// Error is a classified failure. Op names the failing operation.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Op == "" && e.Err == nil:
		return e.Kind.String()
	case e.Err == nil:
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	case e.Op == "":
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Precondition returns a precondition failure for op.
func Precondition(op, format string, args ...any) error {
	return &Error{Kind: KindPrecondition, Op: op, Err: fmt.Errorf(format, args...)}
}

// ToolUnavailable wraps err as a tool-unavailable failure for op.
func ToolUnavailable(op string, err error) error {
	return &Error{Kind: KindToolUnavailable, Op: op, Err: err}
}

// DiscoveryTimeout returns a discovery-timeout failure for op.
func DiscoveryTimeout(op string, err error) error {
	return &Error{Kind: KindDiscoveryTimeout, Op: op, Err: err}
}

// EventStream wraps err as an event-stream failure for op.
func EventStream(op string, err error) error {
	return &Error{Kind: KindEventStream, Op: op, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or 0.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
