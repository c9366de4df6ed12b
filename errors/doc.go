// Package errors provides structured error types for the extern marshaling layer.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: element path, Go type name, value shape and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRead, errors.KindTypeMismatch).
//		Path("xs", "[2]").
//		GoType("uint64").
//		Shape("string").
//		Detail("cannot read text as integer").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.ShapeMismatch(errors.PhaseRead, path, "u64", "string")
//	err := errors.OutOfBounds(errors.PhaseRead, path, 10, 5)
//
// Contract violations (wrong shape for a read conversion, bad index, modulus
// too wide) are not recoverable inside a call. They are raised with Violation,
// which panics with the *Error, and converted back to a returned error at the
// extern invocation boundary with AsViolation or FromPanic.
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
