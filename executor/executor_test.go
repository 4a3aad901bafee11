package executor

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clydemeng/nftbridge/executor/native"
)

func TestNewExecutorNative(t *testing.T) {
	b, err := NewExecutor(Options{})
	require.NoError(t, err)
	defer b.Close()
	assert.Equal(t, native.EngineName, b.Engine())

	b2, err := NewExecutor(Options{DataDir: t.TempDir()})
	require.NoError(t, err)
	assert.NoError(t, b2.Close())
}

func TestWasmKindMatchesBuild(t *testing.T) {
	assert.Equal(t, WasmEnabled, slices.Contains(native.CodeKinds(), "wasm"))
}

