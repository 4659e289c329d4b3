package fibre

import (
	"errors"
	"fmt"
)

// Sentinel errors for the evaluation protocol. Use errors.Is against these,
// or errors.As against *EvalError for the key path of the fibre that raised
// them.
var (
	// ErrDuplicateKey is raised when two children evaluated under the same
	// parent within one tick share a key.
	ErrDuplicateKey = errors.New("fibre: duplicate child key")

	// ErrHookOrderViolation is raised when the sequence or kind of use_*
	// calls for a fibre changes between evaluations.
	ErrHookOrderViolation = errors.New("fibre: hook order violation")

	// ErrMissingContext is raised when UseContext finds no provider ancestor.
	ErrMissingContext = errors.New("fibre: no provider for context key")

	// ErrReentrantTick is raised when RunTick is invoked while a tick is
	// already executing on the runtime.
	ErrReentrantTick = errors.New("fibre: reentrant tick")

	// ErrDisposedAccess is raised when an operation targets a disposed fibre.
	ErrDisposedAccess = errors.New("fibre: access to disposed fibre")

	// ErrDuplicateCapture is raised when a fibre calls UseCapture more than
	// once for the same key within a single evaluation.
	ErrDuplicateCapture = errors.New("fibre: duplicate capture contribution")
)

// EvalError wraps a sentinel evaluation error with the key path of the
// fibre where it originated.
type EvalError struct {
	KeyPath KeyPath
	Err     error
}

func (e *EvalError) Error() string {
	return fmt.Sprintf("fibre %s: %v", e.KeyPath, e.Err)
}

func (e *EvalError) Unwrap() error { return e.Err }

func wrapEvalError(kp KeyPath, err error) *EvalError {
	return &EvalError{KeyPath: kp, Err: err}
}

// NodeFailure wraps a panic or error raised by a node function itself. The
// fibre is marked Failed; its prior committed result is not reused and the
// failure propagates to the caller's EvaluateChild.
type NodeFailure struct {
	KeyPath KeyPath
	Cause   error
}

func (e *NodeFailure) Error() string {
	return fmt.Sprintf("fibre %s: node failure: %v", e.KeyPath, e.Cause)
}

func (e *NodeFailure) Unwrap() error { return e.Cause }
