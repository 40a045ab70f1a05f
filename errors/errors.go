package errors

import (
	"fmt"
	"reflect"

	"github.com/pkg/errors"
)

var (
	// ErrAlreadyCurrent is returned when a migration is requested for an
	// archive that already declares the newest known schema version. It is
	// informational, not a failure: no structural edit was performed.
	ErrAlreadyCurrent = Register(2, "already current")

	// ErrMissingParameter is returned when a migration step requires a
	// caller supplied value that is absent from the parameter set and
	// cannot be recovered from the archive itself.
	ErrMissingParameter = Register(3, "missing parameter")

	// ErrStructural is returned when legacy data violates the structure a
	// migration step expects, for example a catalog without a required
	// field or a row referencing a node that does not exist.
	ErrStructural = Register(4, "structural error")

	// ErrNotFound is used when a requested node or attribute cannot be
	// located in the archive.
	ErrNotFound = Register(5, "not found")

	// ErrDuplicate is returned when a name is already taken, for example a
	// child node created under a name that exists.
	ErrDuplicate = Register(6, "duplicate")

	// ErrInput stands for general input problems indication.
	ErrInput = Register(7, "invalid input")

	// ErrState is returned when an archive or registry is in a state that
	// does not permit the requested operation.
	ErrState = Register(8, "invalid state")

	// ErrType is returned whenever a value is not of the expected type,
	// for example an attribute read with the wrong accessor.
	ErrType = Register(9, "invalid type")

	// ErrHuman is returned when a code path is reached that should not be
	// reachable if the code was written as expected.
	ErrHuman = Register(10, "coding error")

	// ErrPanic is only set when we recover from a panic, so we know to
	// treat the message as untrusted.
	ErrPanic = Register(111222, "panic")
)

// Register returns an error instance that should be used as the base for
// creating error instances during runtime.
//
// Popular root errors are declared in this package, but extensions may want
// to declare custom codes. This function ensures that no error code is used
// twice. Attempt to reuse an error code results in panic.
//
// Use this function only during a program startup phase.
func Register(code uint32, description string) *Error {
	if e, ok := usedCodes[code]; ok {
		panic(fmt.Sprintf("error with code %d is already registered: %q", code, e.desc))
	}
	err := &Error{
		code: code,
		desc: description,
	}
	usedCodes[err.code] = err
	return err
}

// usedCodes is keeping track of used codes to ensure their uniqueness. No two
// error instances should share the same error code.
var usedCodes = map[uint32]*Error{
	1: nil, // Error code 1 is restricted for wrapped non-raf errors and must not be used.
}

// Error represents a root error.
//
// Root errors categorize issues. Each error instance created during the
// runtime should wrap one of the declared root errors. This allows error
// tests to match on the category regardless of how many description layers
// were added on top.
type Error struct {
	code uint32
	desc string
}

func (e Error) Error() string {
	return e.desc
}

func (e Error) Code() uint32 {
	return e.code
}

// New returns a new error. Returned instance is having the root cause set to
// this error. Below two lines are equal
//   e.New("my description")
//   Wrap(e, "my description")
func (e *Error) New(description string) error {
	return Wrap(e, description)
}

// Newf is basically New with formatting capabilities.
func (e *Error) Newf(description string, args ...interface{}) error {
	return e.New(fmt.Sprintf(description, args...))
}

// Is check if given error instance is of a given kind/type. This involves
// unwrapping given error using the Cause method if available.
func (kind *Error) Is(err error) bool {
	// Reflect usage is necessary to correctly compare with
	// a nil implementation of an error.
	if kind == nil {
		if err == nil {
			return true
		}
		return reflect.ValueOf(err).IsNil()
	}

	for {
		if err == kind {
			return true
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return false
		}
	}
}

// Wrap extends given error with an additional information.
//
// If err is nil, this returns nil, avoiding the need for an if statement when
// wrapping a error returned at the end of a function.
func Wrap(err error, description string) error {
	if err == nil {
		return nil
	}

	// If this error does not carry the stacktrace information yet, attach
	// one. This should be done only once per error at the lowest frame
	// possible (most inner wrap).
	if stackTrace(err) == nil {
		err = errors.WithStack(err)
	}

	return &wrappedError{
		parent: err,
		msg:    description,
	}
}

// Wrapf extends given error with an additional information.
//
// This function works like Wrap function with additional functionality of
// formatting the input as specified.
func Wrapf(err error, format string, args ...interface{}) error {
	desc := fmt.Sprintf(format, args...)
	return Wrap(err, desc)
}

type wrappedError struct {
	// This error layer description.
	msg string
	// The underlying error that triggered this one.
	parent error
}

func (e *wrappedError) Error() string {
	return fmt.Sprintf("%s: %s", e.msg, e.parent.Error())
}

func (e *wrappedError) Cause() error {
	return e.parent
}

// stackTrace returns the first found stack trace frame carried by given error
// or any wrapped error. It returns nil if no stack trace is found.
func stackTrace(err error) errors.StackTrace {
	type stackTracer interface {
		StackTrace() errors.StackTrace
	}

	for {
		if st, ok := err.(stackTracer); ok {
			return st.StackTrace()
		}

		if c, ok := err.(causer); ok {
			err = c.Cause()
		} else {
			return nil
		}
	}
}

// Recover captures a panic and stop its propagation. If panic happens it is
// transformed into a ErrPanic instance and assigned to given error. Call this
// function using defer in order to work as expected.
func Recover(err *error) {
	if r := recover(); r != nil {
		*err = Wrapf(ErrPanic, "%v", r)
	}
}

// causer is an interface implemented by an error that supports wrapping. Use
// it to test if an error wraps another error instance.
type causer interface {
	Cause() error
}
