package nonfungibles

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/tracing"
)

// stubExecutor answers every call with ret/err and records the calls.
type stubExecutor struct {
	calls []*vm.CallMetadata
	ret   *types.ExecReturn
	err   error
}

func (s *stubExecutor) Engine() string { return "stub" }

func (s *stubExecutor) Call(meta *vm.CallMetadata) (*types.ExecReturn, error) {
	s.calls = append(s.calls, meta)
	return s.ret, s.err
}

var (
	alice      = types.BytesToAccountID([]byte{0xa1})
	bob        = types.BytesToAccountID([]byte{0xb0})
	collection = types.BytesToAccountID([]byte{0xc0})
	budget     = types.WeightFromParts(1_000_000, 10_000)
)

func encoded(t *testing.T, v any) []byte {
	t.Helper()
	b, err := codec.Encode(v)
	require.NoError(t, err)
	return b
}

func newStub(ret *types.ExecReturn, err error) (*Adapter, *stubExecutor) {
	s := &stubExecutor{ret: ret, err: err}
	return NewDefault(vm.NewBridge(s)), s
}

func TestOwnerCall(t *testing.T) {
	a, s := newStub(&types.ExecReturn{Data: encoded(t, codec.Some(bob))}, nil)

	who, ok, err := a.Owner(alice, collection, 0x01020304, budget)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, bob, who)

	require.Len(t, s.calls, 1)
	meta := s.calls[0]
	assert.Equal(t, []byte{0x56, 0x66, 0x07, 0x08, 0x04, 0x03, 0x02, 0x01}, meta.Data)
	assert.Equal(t, alice, meta.Caller)
	assert.Equal(t, collection, meta.Target)
	assert.False(t, meta.Commit)
	assert.True(t, meta.ValueOrZero().IsZero())
	assert.Equal(t, types.Enforced, meta.Determinism)
	assert.Equal(t, budget, meta.Budget)
}

func TestOwnerAbsent(t *testing.T) {
	a, _ := newStub(&types.ExecReturn{Data: []byte{0}}, nil)
	_, ok, err := a.Owner(alice, collection, 1, budget)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestOwnerFailures(t *testing.T) {
	t.Run("dispatch", func(t *testing.T) {
		a, _ := newStub(nil, vm.ErrExecutorMissing)
		_, ok, err := a.Owner(alice, collection, 1, budget)
		assert.False(t, ok)
		assert.ErrorIs(t, err, vm.ErrDispatch)
		assert.Equal(t, tracing.ReasonExecutorMissing, vm.ReasonOf(err))
	})
	t.Run("undecodable", func(t *testing.T) {
		a, _ := newStub(&types.ExecReturn{Data: []byte{1, 2, 3}}, nil)
		_, ok, err := a.Owner(alice, collection, 1, budget)
		assert.False(t, ok)
		assert.ErrorIs(t, err, codec.ErrDecode)
		assert.Contains(t, err.Error(), "owner_of")
	})
	t.Run("reverted", func(t *testing.T) {
		a, _ := newStub(&types.ExecReturn{Flags: types.FlagRevert}, nil)
		_, _, err := a.Owner(alice, collection, 1, budget)
		assert.Equal(t, tracing.ReasonReverted, vm.ReasonOf(err))
	})
	t.Run("no budget", func(t *testing.T) {
		a, s := newStub(nil, nil)
		_, _, err := a.Owner(alice, collection, 1, types.Weight{})
		assert.ErrorIs(t, err, vm.ErrNoBudget)
		assert.Empty(t, s.calls)
	})
}

func TestMutationPayloads(t *testing.T) {
	a, s := newStub(&types.ExecReturn{Data: []byte{0}}, nil)

	require.NoError(t, a.MintInto(collection, 42, alice, budget))
	require.NoError(t, a.Burn(collection, 42, bob, budget))
	require.NoError(t, a.Transfer(alice, collection, 7, bob, budget))
	require.Len(t, s.calls, 3)

	mint := append([]byte{0x01, 0x02, 0x03, 0x04}, alice[:]...)
	mint = append(mint, 42, 0, 0, 0)
	assert.Equal(t, mint, s.calls[0].Data)
	assert.Equal(t, alice, s.calls[0].Caller)

	assert.Equal(t, []byte{0x04, 0x03, 0x02, 0x01, 42, 0, 0, 0}, s.calls[1].Data)
	assert.Equal(t, bob, s.calls[1].Caller)

	transfer := append([]byte{0x05, 0x06, 0x07, 0x08}, bob[:]...)
	transfer = append(transfer, 7, 0, 0, 0)
	assert.Equal(t, transfer, s.calls[2].Data)
	assert.Equal(t, alice, s.calls[2].Caller)

	for _, meta := range s.calls {
		assert.True(t, meta.Commit)
		assert.Equal(t, types.Enforced, meta.Determinism)
		assert.False(t, meta.AllowReentry)
		assert.Nil(t, meta.StorageDepositLimit)
		assert.Equal(t, budget, meta.Budget)
	}
}

func TestMutationOutcomes(t *testing.T) {
	tests := []struct {
		name   string
		ret    *types.ExecReturn
		reason tracing.FailureReason
		is     error
	}{
		{"empty output accepted", &types.ExecReturn{}, tracing.ReasonUnspecified, nil},
		{"rejected", &types.ExecReturn{Data: encoded(t, codec.Rejection("no"))}, tracing.ReasonRejected, ErrRejected},
		{"reverted", &types.ExecReturn{Flags: types.FlagRevert, Data: encoded(t, codec.Rejection("not owner"))}, tracing.ReasonReverted, vm.ErrExecutionReverted},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newStub(tt.ret, nil)
			err := a.Burn(collection, 1, alice, budget)
			if tt.is == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.is)
			assert.Equal(t, tt.reason, vm.ReasonOf(err))
		})
	}

	a, _ := newStub(&types.ExecReturn{Data: []byte{9}}, nil)
	assert.ErrorIs(t, a.MintInto(collection, 1, alice, budget), codec.ErrDecode)
}

func TestRevertKeepsProgramOutput(t *testing.T) {
	out := encoded(t, codec.Rejection("not owner"))
	a, _ := newStub(&types.ExecReturn{Flags: types.FlagRevert, Data: out}, nil)

	err := a.Transfer(alice, collection, 1, bob, budget)
	var de *vm.DispatchError
	require.ErrorAs(t, err, &de)
	assert.Equal(t, out, de.Data)
	assert.Contains(t, err.Error(), "not owner")
}

func TestLocalAnswers(t *testing.T) {
	a, s := newStub(nil, nil)

	_, ok := a.CollectionOwner(alice, collection)
	assert.False(t, ok)
	_, ok = a.Attribute(collection, 1, []byte("name"))
	assert.False(t, ok)
	_, ok = a.CollectionAttribute(alice, collection, []byte("name"))
	assert.False(t, ok)
	assert.True(t, a.CanTransfer(alice, collection, 1))

	_, err := a.QueryCollectionOwner(alice, collection)
	assert.ErrorIs(t, err, ErrNotQueryable)
	_, err = a.QueryAttribute(collection, 1, nil)
	assert.ErrorIs(t, err, ErrNotQueryable)
	_, err = a.QueryCollectionAttribute(alice, collection, nil)
	assert.ErrorIs(t, err, ErrNotQueryable)

	for _, kv := range []struct{ k, v []byte }{
		{[]byte("k"), []byte("v")},
		{nil, nil},
		{[]byte{}, []byte{}},
		{nil, []byte("v")},
		{[]byte("k"), nil},
	} {
		assert.ErrorIs(t, a.SetAttribute(collection, 1, kv.k, kv.v), ErrUnsupported)
		assert.ErrorIs(t, a.SetAttribute(collection, 0, kv.k, kv.v), ErrUnsupported)
		assert.ErrorIs(t, a.SetCollectionAttribute(collection, kv.k, kv.v), ErrUnsupported)
		assert.ErrorIs(t, a.SetCollectionAttribute(types.CollectionID{}, kv.k, kv.v), ErrUnsupported)
	}

	_, ok = TypedAttribute[uint32](a, collection, 1, "name")
	assert.False(t, ok)
	_, ok = TypedCollectionAttribute[string](a, alice, collection, uint8(1))
	assert.False(t, ok)
	assert.ErrorIs(t, SetTypedAttribute(a, collection, 1, "k", uint64(5)), ErrUnsupported)
	assert.ErrorIs(t, SetTypedCollectionAttribute(a, collection, "k", "v"), ErrUnsupported)

	assert.Empty(t, s.calls, "none of these reach the executor")
}

func TestInkAdapterUsesInkSelectors(t *testing.T) {
	s := &stubExecutor{ret: &types.ExecReturn{Data: []byte{0}}}
	ink := codec.InkSelectors()
	a := New(vm.NewBridge(s), ink)

	require.NoError(t, a.Burn(collection, 3, alice, budget))
	sel := ink.Selector(codec.OpBurn)
	assert.Equal(t, sel[:], s.calls[0].Data[:4])
	assert.Equal(t, "stub", a.Engine())
}
