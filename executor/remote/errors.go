package remote

import (
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/tracing"
)

var reasonCodes = map[tracing.FailureReason]codes.Code{
	tracing.ReasonNoBudget:            codes.InvalidArgument,
	tracing.ReasonNondeterministic:    codes.FailedPrecondition,
	tracing.ReasonExecutorMissing:     codes.NotFound,
	tracing.ReasonOutOfBudget:         codes.ResourceExhausted,
	tracing.ReasonTrapped:             codes.Aborted,
	tracing.ReasonReverted:            codes.Aborted,
	tracing.ReasonStorageDepositLimit: codes.ResourceExhausted,
	tracing.ReasonInsufficientBalance: codes.FailedPrecondition,
}

// mapErr turns an executor failure into a status carrying the failure reason
// as a StringValue detail.
func mapErr(err error) error {
	if err == nil {
		return nil
	}
	reason := vm.ReasonOf(err)
	if reason == tracing.ReasonUnspecified {
		reason = tracing.ReasonTrapped
	}
	code, ok := reasonCodes[reason]
	if !ok {
		code = codes.Internal
	}
	st, derr := status.New(code, err.Error()).WithDetails(wrapperspb.String(reason.String()))
	if derr != nil {
		return status.Error(code, err.Error())
	}
	return st.Err()
}

// mapRPC rebuilds a *vm.DispatchError from a failed RPC. Errors that did not
// come from the remote executor are transport failures.
func mapRPC(target types.AccountID, err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return vm.NewDispatchError(tracing.ReasonTransport, target, err)
	}
	for _, d := range st.Details() {
		if s, ok := d.(*wrapperspb.StringValue); ok {
			if reason := tracing.ParseFailureReason(s.GetValue()); reason != tracing.ReasonUnspecified {
				return vm.NewDispatchError(reason, target, sentinel(reason, st.Message()))
			}
		}
	}
	return vm.NewDispatchError(tracing.ReasonTransport, target, err)
}

// sentinel keeps errors.Is working for the reasons that have one.
func sentinel(reason tracing.FailureReason, msg string) error {
	var base error
	switch reason {
	case tracing.ReasonNoBudget:
		base = vm.ErrNoBudget
	case tracing.ReasonNondeterministic:
		base = vm.ErrNondeterministicCommit
	case tracing.ReasonExecutorMissing:
		base = vm.ErrExecutorMissing
	case tracing.ReasonOutOfBudget:
		base = vm.ErrOutOfBudget
	case tracing.ReasonReverted:
		base = vm.ErrExecutionReverted
	default:
		return errors.New(msg)
	}
	return &remoteError{base: base, msg: msg}
}

type remoteError struct {
	base error
	msg  string
}

func (e *remoteError) Error() string { return "remote: " + e.msg }
func (e *remoteError) Unwrap() error { return e.base }
