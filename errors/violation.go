package errors

import "fmt"

// Violation aborts the current call with a contract violation.
// Use only for defects in call-site typing, never for recoverable conditions.
func Violation(err *Error) {
	panic(err)
}

// AsViolation converts a recovered panic value into an *Error.
// The second result is false when r did not originate from Violation.
func AsViolation(r any) (*Error, bool) {
	if err, ok := r.(*Error); ok {
		return err, true
	}
	return nil, false
}

// FromPanic converts any recovered panic value into an *Error.
func FromPanic(phase Phase, r any) *Error {
	if err, ok := AsViolation(r); ok {
		return err
	}
	if err, ok := r.(error); ok {
		return Wrap(phase, KindPanic, err, "native function panicked")
	}
	return &Error{
		Phase:  phase,
		Kind:   KindPanic,
		Detail: fmt.Sprintf("native function panicked: %v", r),
		Value:  r,
	}
}
