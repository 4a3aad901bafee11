//go:build wasmer
// +build wasmer

package executor

// registers the wasm code kind with the native executor
import _ "github.com/clydemeng/nftbridge/executor/wasm"

// WasmEnabled reports whether the build can run wasm contract code.
const WasmEnabled = true
