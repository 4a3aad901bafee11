package vm

import (
	"errors"
	"math"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/tracing"
)

// recordingExecutor answers every call with a canned result and remembers
// what it was asked.
type recordingExecutor struct {
	calls []*CallMetadata
	ret   *types.ExecReturn
	err   error
}

func (r *recordingExecutor) Engine() string { return "recording" }

func (r *recordingExecutor) Call(meta *CallMetadata) (*types.ExecReturn, error) {
	r.calls = append(r.calls, meta)
	return r.ret, r.err
}

var (
	alice      = types.BytesToAccountID([]byte{0xa1})
	collection = types.BytesToAccountID([]byte{0xc0, 0x11})
	budget     = types.WeightFromParts(1_000_000, 10_000)
)

func burnPayload(t *testing.T) codec.Payload {
	t.Helper()
	p, err := codec.EncodeCall(codec.DefaultSelectors.Selector(codec.OpBurn), types.ItemID(3))
	require.NoError(t, err)
	return p
}

func TestInvokeForwardsArgumentsUnchanged(t *testing.T) {
	exec := &recordingExecutor{ret: &types.ExecReturn{Data: []byte{0}}}
	b := NewBridge(exec)
	limit := uint256.NewInt(500)
	value := uint256.NewInt(9)
	payload := burnPayload(t)

	ret, err := b.Invoke(alice, collection, value, budget, limit, payload, false, types.Enforced, true)
	require.NoError(t, err)
	assert.Equal(t, []byte{0}, ret.Data)

	require.Len(t, exec.calls, 1)
	got := exec.calls[0]
	assert.Equal(t, alice, got.Caller)
	assert.Equal(t, collection, got.Target)
	assert.Equal(t, budget, got.Budget, "budget must reach the executor unmodified")
	assert.Same(t, limit, got.StorageDepositLimit)
	assert.Equal(t, uint64(9), got.ValueOrZero().Uint64())
	assert.Equal(t, payload.Bytes(), got.Data)
	assert.False(t, got.AllowReentry)
	assert.True(t, got.Commit)
	assert.Equal(t, "recording", b.Engine())
}

func TestInvokeRefusesBeforeDispatch(t *testing.T) {
	tests := []struct {
		name   string
		budget types.Weight
		det    types.Determinism
		commit bool
		reason tracing.FailureReason
		want   error
	}{
		{"zero budget", types.Weight{}, types.Enforced, false, tracing.ReasonNoBudget, ErrNoBudget},
		{"relaxed commit", budget, types.Relaxed, true, tracing.ReasonNondeterministic, ErrNondeterministicCommit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordingExecutor{}
			_, err := NewBridge(exec).Invoke(alice, collection, nil, tt.budget, nil, burnPayload(t), false, tt.det, tt.commit)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDispatch)
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.reason, ReasonOf(err))
			assert.Empty(t, exec.calls, "executor must not be reached")
		})
	}
}

func TestInvokeRelaxedReadIsAllowed(t *testing.T) {
	exec := &recordingExecutor{}
	ret, err := NewBridge(exec).Invoke(alice, collection, nil, budget, nil, burnPayload(t), false, types.Relaxed, false)
	require.NoError(t, err)
	assert.NotNil(t, ret, "a nil return from the executor is normalized to an empty outcome")
	assert.Len(t, exec.calls, 1)
}

func TestInvokeNormalizesExecutorErrors(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		reason tracing.FailureReason
	}{
		{"missing", ErrExecutorMissing, tracing.ReasonExecutorMissing},
		{"out of budget", ErrOutOfBudget, tracing.ReasonOutOfBudget},
		{"reverted", ErrExecutionReverted, tracing.ReasonReverted},
		{"opaque", errors.New("unreachable instruction"), tracing.ReasonTrapped},
		{"typed", NewDispatchError(tracing.ReasonStorageDepositLimit, types.CollectionID{}, errors.New("deposit")), tracing.ReasonStorageDepositLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := &recordingExecutor{err: tt.err}
			ret, err := NewBridge(exec).Invoke(alice, collection, nil, budget, nil, burnPayload(t), false, types.Enforced, true)
			assert.Nil(t, ret)
			require.ErrorIs(t, err, ErrDispatch)
			assert.Equal(t, tt.reason, ReasonOf(err))

			var de *DispatchError
			require.ErrorAs(t, err, &de)
			assert.Equal(t, collection, de.Target)
			assert.Len(t, exec.calls, 1, "no retries")
		})
	}
}

func TestInvokeWithoutExecutor(t *testing.T) {
	var b *Bridge
	_, err := b.Invoke(alice, collection, nil, budget, nil, burnPayload(t), false, types.Enforced, false)
	assert.ErrorIs(t, err, ErrNoExecutor)
	assert.Equal(t, tracing.ReasonExecutorMissing, ReasonOf(err))
	assert.Equal(t, "none", b.Engine())
}

func TestRevertedOutcomeIsReturned(t *testing.T) {
	exec := &recordingExecutor{ret: &types.ExecReturn{Flags: types.FlagRevert, Data: []byte{1}}}
	ret, err := NewBridge(exec).Invoke(alice, collection, nil, budget, nil, burnPayload(t), false, types.Enforced, true)
	require.NoError(t, err, "the bridge reports what the executor returned, interpretation is up to the caller")
	assert.True(t, ret.Reverted())
}

func TestInvokeLeavesExecutorErrorUntouched(t *testing.T) {
	orig := NewDispatchError(tracing.ReasonOutOfBudget, types.CollectionID{}, errors.New("budget"))
	exec := &recordingExecutor{err: orig}
	_, err := NewBridge(exec).Invoke(alice, collection, nil, budget, nil, burnPayload(t), false, types.Enforced, false)

	var de *DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, collection, de.Target)
	assert.Equal(t, tracing.ReasonOutOfBudget, de.Reason)
	assert.Equal(t, types.CollectionID{}, orig.Target, "executor's error must not be written to")
	assert.NotSame(t, orig, de)
}

func TestGaugeValueSaturates(t *testing.T) {
	assert.Equal(t, int64(7), gaugeValue(7))
	assert.Equal(t, int64(math.MaxInt64), gaugeValue(math.MaxInt64))
	assert.Equal(t, int64(math.MaxInt64), gaugeValue(math.MaxInt64+1))
	assert.Equal(t, int64(math.MaxInt64), gaugeValue(math.MaxUint64))
}
