//go:build wasmer

package wasm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/executor/native"
	"github.com/clydemeng/nftbridge/tracing"
)

// echo stores its input under "last" and answers with it, so the first input
// byte doubles as the return flags.
const echoWat = `
(module
  (import "env" "set_storage" (func $set (param i32 i32 i32 i32) (result i32)))
  (memory (export "memory") 1)
  (data (i32.const 0) "last")
  (global $heap (mut i32) (i32.const 1024))
  (func (export "alloc") (param $n i32) (result i32)
    (local $p i32)
    (local.set $p (global.get $heap))
    (global.set $heap (i32.add (global.get $heap) (local.get $n)))
    (local.get $p))
  (func (export "call") (param $ptr i32) (param $len i32) (result i64)
    (drop (call $set (i32.const 0) (i32.const 4) (local.get $ptr) (local.get $len)))
    (i64.or
      (i64.shl (i64.extend_i32_u (local.get $ptr)) (i64.const 32))
      (i64.extend_i32_u (local.get $len)))))
`

const clockWat = `
(module
  (import "env" "now" (func $now (result i64)))
  (memory (export "memory") 1)
  (func (export "alloc") (param i32) (result i32) (i32.const 1024))
  (func (export "call") (param i32 i32) (result i64) (i64.const 0)))
`

var (
	alice  = types.BytesToAccountID([]byte{0xa1})
	budget = types.WeightFromParts(10_000_000, 100_000)
)

func deployWat(t *testing.T, e *native.Executor, wat string) types.AccountID {
	t.Helper()
	code, err := wasmer.Wat2Wasm(wat)
	require.NoError(t, err)
	addr, err := e.Deploy(alice, Kind, code, nil)
	require.NoError(t, err)
	return addr
}

func TestEchoContract(t *testing.T) {
	e, err := native.NewMemory()
	require.NoError(t, err)
	defer e.Close()
	c := deployWat(t, e, echoWat)

	ret, err := e.Call(&vm.CallMetadata{Caller: alice, Target: c, Budget: budget, Data: []byte{0, 'h', 'i'}, Commit: true})
	require.NoError(t, err)
	assert.False(t, ret.Reverted())
	assert.Equal(t, []byte("hi"), ret.Data)
	assert.True(t, ret.GasConsumed.RefTime > native.DefaultSchedule.Base.RefTime, "storage writes are charged")

	ret, err = e.Call(&vm.CallMetadata{Caller: alice, Target: c, Budget: budget, Data: []byte{1, 'n', 'o'}, Commit: true})
	require.NoError(t, err)
	assert.True(t, ret.Reverted())
}

func TestHostErrorKeepsReason(t *testing.T) {
	e, err := native.NewMemory()
	require.NoError(t, err)
	defer e.Close()
	c := deployWat(t, e, echoWat)

	_, err = e.Call(&vm.CallMetadata{Caller: alice, Target: c, Budget: types.WeightFromParts(30_000, 1_000), Data: []byte{0, 1}, Commit: true})
	assert.Equal(t, tracing.ReasonOutOfBudget, vm.ReasonOf(err))
}

func TestClockImportIsNondeterministic(t *testing.T) {
	e, err := native.NewMemory()
	require.NoError(t, err)
	defer e.Close()
	c := deployWat(t, e, clockWat)

	_, err = e.Call(&vm.CallMetadata{Caller: alice, Target: c, Budget: budget, Data: []byte{0}, Commit: true})
	assert.Equal(t, tracing.ReasonNondeterministic, vm.ReasonOf(err))
}

func TestUnknownImportRejected(t *testing.T) {
	code, err := wasmer.Wat2Wasm(`(module (import "env" "random" (func)))`)
	require.NoError(t, err)
	_, err = Load(alice, code)
	assert.ErrorContains(t, err, "unsupported import")
}
