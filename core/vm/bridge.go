package vm

import (
	"errors"
	"math"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"

	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/tracing"
)

// Bridge performs exactly one synchronous executor invocation per Invoke and
// normalizes its outcome. It owns no state and never retries.
type Bridge struct {
	exec Executor
}

// NewBridge wraps exec.
func NewBridge(exec Executor) *Bridge {
	return &Bridge{exec: exec}
}

// Engine reports the backing executor's name.
func (b *Bridge) Engine() string {
	if b == nil || b.exec == nil {
		return "none"
	}
	return b.exec.Engine()
}

// Invoke delivers payload to target on behalf of caller.
//
// The budget is handed to the executor as given. A zero budget and a
// committing call that does not enforce determinism are refused before the
// executor is reached. Every failure comes back as a *DispatchError; a
// returned ExecReturn may still carry the revert flag, which callers that
// care about the program's verdict must check.
func (b *Bridge) Invoke(
	caller types.AccountID,
	target types.CollectionID,
	value *uint256.Int,
	budget types.Weight,
	storageLimit *uint256.Int,
	payload codec.Payload,
	allowReentry bool,
	determinism types.Determinism,
	commit bool,
) (*types.ExecReturn, error) {
	if b == nil || b.exec == nil {
		return nil, NewDispatchError(tracing.ReasonExecutorMissing, target, ErrNoExecutor)
	}
	if budget.IsZero() {
		return nil, NewDispatchError(tracing.ReasonNoBudget, target, ErrNoBudget)
	}
	if commit && determinism != types.Enforced {
		return nil, NewDispatchError(tracing.ReasonNondeterministic, target, ErrNondeterministicCommit)
	}
	meta := &CallMetadata{
		Caller:              caller,
		Target:              target,
		Value:               value,
		Budget:              budget,
		StorageDepositLimit: storageLimit,
		Data:                payload.Bytes(),
		AllowReentry:        allowReentry,
		Determinism:         determinism,
		Commit:              commit,
	}
	return b.call(meta)
}

func (b *Bridge) call(meta *CallMetadata) (*types.ExecReturn, error) {
	start := time.Now()
	sel := selectorOf(meta.Data)
	callMeter.Mark(1)
	if meta.Commit {
		commitMeter.Mark(1)
	}
	ret, err := b.exec.Call(meta)
	callTimer.UpdateSince(start)

	if err != nil {
		dispatchErrMeter.Mark(1)
		derr := normalize(meta.Target, err)
		log.Debug("Executor call failed", "engine", b.exec.Engine(), "target", meta.Target,
			"selector", sel, "reason", derr.Reason, "err", derr.Err)
		return nil, derr
	}
	if ret == nil {
		ret = new(types.ExecReturn)
	}
	if ret.Reverted() {
		revertMeter.Mark(1)
	}
	refTimeGauge.Update(gaugeValue(ret.GasConsumed.RefTime))
	log.Trace("Executor call", "engine", b.exec.Engine(), "caller", meta.Caller, "target", meta.Target,
		"selector", sel, "commit", meta.Commit, "reverted", ret.Reverted(),
		"output", len(ret.Data), "consumed", ret.GasConsumed, "elapsed", time.Since(start))
	return ret, nil
}

// gaugeValue saturates v at the gauge's int64 range.
func gaugeValue(v uint64) int64 {
	if v > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(v)
}

// normalize keeps executor-supplied reasons and wraps anything else. The
// executor's error value is never modified.
func normalize(target types.CollectionID, err error) *DispatchError {
	var derr *DispatchError
	if errors.As(err, &derr) {
		if derr.Target != (types.CollectionID{}) {
			return derr
		}
		cpy := *derr
		cpy.Target = target
		return &cpy
	}
	reason := tracing.ReasonTrapped
	switch {
	case errors.Is(err, ErrExecutorMissing):
		reason = tracing.ReasonExecutorMissing
	case errors.Is(err, ErrOutOfBudget):
		reason = tracing.ReasonOutOfBudget
	case errors.Is(err, ErrExecutionReverted):
		reason = tracing.ReasonReverted
	}
	return NewDispatchError(reason, target, err)
}

func selectorOf(data []byte) codec.Selector {
	var s codec.Selector
	copy(s[:], data)
	return s
}
