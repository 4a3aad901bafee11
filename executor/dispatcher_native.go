//go:build !wasmer
// +build !wasmer

package executor

// WasmEnabled reports whether the build can run wasm contract code.
const WasmEnabled = false
