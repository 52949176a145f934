package errors

import (
	"fmt"
	"runtime/debug"
)

// Recover converts a panic into an error on the named return value of the
// surrounding function. Meant to be deferred in code that drives
// user-supplied estimators, where a panicking Fit or Score in one fold
// must not take down the whole search.
//
//	func (p *Pipeline) Fit(X, y mat.Matrix) (err error) {
//	    defer errors.Recover(&err, "Pipeline.Fit")
//	    ...
//	}
//
// If *err already holds an error when the panic fires, that error stays
// in the chain so callers can still match it with Is.
func Recover(err *error, operation string) {
	r := recover()
	if r == nil {
		return
	}
	if *err != nil {
		*err = fmt.Errorf("panic in %s: %v (original error: %w)", operation, r, *err)
		return
	}
	*err = NewPanicError(operation, r)
}

// SafeExecute runs fn with panic recovery. An error returned by fn passes
// through untouched. A panic comes back as a PanicError.
func SafeExecute(operation string, fn func() error) (err error) {
	defer Recover(&err, operation)
	return fn()
}

// PanicError carries the value and stack trace of a recovered panic.
type PanicError struct {
	// PanicValue is the value the panicking code passed to panic().
	PanicValue interface{}

	// StackTrace is captured at recovery time.
	StackTrace string

	// Operation names the call site that recovered the panic.
	Operation string
}

// NewPanicError captures the current stack and wraps the panic value.
func NewPanicError(operation string, panicValue interface{}) *PanicError {
	return &PanicError{
		PanicValue: panicValue,
		StackTrace: string(debug.Stack()),
		Operation:  operation,
	}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Operation, e.PanicValue)
}

// String includes the stack trace, for logging at the point of recovery.
func (e *PanicError) String() string {
	return fmt.Sprintf("panic in %s: %v\nStack trace:\n%s",
		e.Operation, e.PanicValue, e.StackTrace)
}

// Unwrap returns nil. A PanicError is a root cause.
func (e *PanicError) Unwrap() error {
	return nil
}
