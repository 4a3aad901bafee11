package vm

import (
	"errors"
	"fmt"

	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/tracing"
)

var (
	// ErrDispatch matches every *DispatchError.
	ErrDispatch = errors.New("bridge: dispatch failed")

	ErrNoBudget               = errors.New("call budget not supplied")
	ErrNondeterministicCommit = errors.New("state-changing call must enforce determinism")
	ErrNoExecutor             = errors.New("no executor configured")
	ErrExecutorMissing        = errors.New("target executor not found")
	ErrOutOfBudget            = errors.New("budget exhausted")
	ErrExecutionReverted      = errors.New("execution reverted")
)

// DispatchError reports a call that could not be executed, or that the
// program rolled back. It is always recoverable by the caller.
type DispatchError struct {
	Reason tracing.FailureReason
	Target types.CollectionID
	// Data is whatever output the program produced before failing. Reverted
	// calls usually carry their rejection here.
	Data []byte
	Err  error
}

// NewDispatchError builds a DispatchError for target.
func NewDispatchError(reason tracing.FailureReason, target types.CollectionID, err error) *DispatchError {
	return &DispatchError{Reason: reason, Target: target, Err: err}
}

func (e *DispatchError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("bridge: call to %s failed: %s", e.Target.TerminalString(), e.Reason)
	}
	return fmt.Sprintf("bridge: call to %s failed: %s: %v", e.Target.TerminalString(), e.Reason, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDispatch) match any DispatchError.
func (e *DispatchError) Is(target error) bool { return target == ErrDispatch }

// ReasonOf extracts the failure reason from err, or ReasonUnspecified when err
// is not a dispatch failure.
func ReasonOf(err error) tracing.FailureReason {
	var de *DispatchError
	if errors.As(err, &de) {
		return de.Reason
	}
	return tracing.ReasonUnspecified
}
