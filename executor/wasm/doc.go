// Package wasm runs WebAssembly contracts inside the native executor through
// wasmer. Importing it registers the "wasm" code kind. It is only built with
// the wasmer build tag since it needs the wasmer shared library.
//
// A contract module exports:
//
//	memory                       linear memory
//	alloc(len i32) i32           returns a buffer the host may write to
//	call(ptr i32, len i32) i64   runs the call; returns ptr<<32 | len of the output
//
// The first output byte holds the return flags, the rest is the return data.
// Host functions are imported from "env": caller, address, value_lo,
// get_storage, set_storage, clear_storage and now. Importing now marks the
// module as non-deterministic.
package wasm
