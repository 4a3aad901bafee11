//go:build wasmer

package wasm

import (
	"errors"
	"fmt"
	"time"

	"github.com/wasmerio/wasmer-go/wasmer"

	"github.com/clydemeng/nftbridge/executor/native"
)

const hostModule = "env"

// hostImports are the functions a module may import. Anything else fails to
// instantiate.
var hostImports = map[string]bool{
	"caller":        true,
	"address":       true,
	"value_lo":      true,
	"get_storage":   true,
	"set_storage":   true,
	"clear_storage": true,
	"now":           false, // allowed, but not deterministic
}

var errHostTrap = errors.New("wasm: host function failed")

// host binds one call's native.Context to a wasmer instance. The first host
// error is kept so the executor can report it with its original reason.
type host struct {
	ctx *native.Context
	mem *wasmer.Memory
	err error
}

func (h *host) fail(err error) ([]wasmer.Value, error) {
	if h.err == nil {
		h.err = err
	}
	return nil, errHostTrap
}

// slice returns len bytes of linear memory at ptr.
func (h *host) slice(ptr, n int32) ([]byte, error) {
	if h.mem == nil {
		return nil, fmt.Errorf("wasm: memory not exported")
	}
	data := h.mem.Data()
	if ptr < 0 || n < 0 || int64(ptr)+int64(n) > int64(len(data)) {
		return nil, fmt.Errorf("wasm: access [%d,+%d) outside memory of %d bytes", ptr, n, len(data))
	}
	return data[ptr : ptr+n], nil
}

func (h *host) imports(store *wasmer.Store) *wasmer.ImportObject {
	fn := func(params, results []wasmer.ValueKind, f func([]wasmer.Value) ([]wasmer.Value, error)) *wasmer.Function {
		return wasmer.NewFunction(store, wasmer.NewFunctionType(wasmer.NewValueTypes(params...), wasmer.NewValueTypes(results...)), f)
	}
	writeAccount := func(src []byte) func([]wasmer.Value) ([]wasmer.Value, error) {
		return func(args []wasmer.Value) ([]wasmer.Value, error) {
			dst, err := h.slice(args[0].I32(), int32(len(src)))
			if err != nil {
				return h.fail(err)
			}
			copy(dst, src)
			return []wasmer.Value{}, nil
		}
	}

	obj := wasmer.NewImportObject()
	obj.Register(hostModule, map[string]wasmer.IntoExtern{
		"caller":  fn([]wasmer.ValueKind{wasmer.I32}, nil, writeAccount(h.ctx.Caller[:])),
		"address": fn([]wasmer.ValueKind{wasmer.I32}, nil, writeAccount(h.ctx.Address[:])),
		"value_lo": wasmer.NewFunction(store, wasmer.NewFunctionType(wasmer.NewValueTypes(), wasmer.NewValueTypes(wasmer.I64)),
			func([]wasmer.Value) ([]wasmer.Value, error) {
				return []wasmer.Value{wasmer.NewI64(int64(h.ctx.Value.Uint64()))}, nil
			}),
		// get_storage(key_ptr, key_len, out_ptr, out_cap) -> len, or -1 when absent.
		// Values longer than out_cap are not copied.
		"get_storage": fn([]wasmer.ValueKind{wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32}, []wasmer.ValueKind{wasmer.I32},
			func(args []wasmer.Value) ([]wasmer.Value, error) {
				key, err := h.slice(args[0].I32(), args[1].I32())
				if err != nil {
					return h.fail(err)
				}
				v, ok, err := h.ctx.GetStorage(key)
				if err != nil {
					return h.fail(err)
				}
				if !ok {
					return []wasmer.Value{wasmer.NewI32(-1)}, nil
				}
				if int32(len(v)) <= args[3].I32() {
					out, err := h.slice(args[2].I32(), int32(len(v)))
					if err != nil {
						return h.fail(err)
					}
					copy(out, v)
				}
				return []wasmer.Value{wasmer.NewI32(int32(len(v)))}, nil
			}),
		"set_storage": fn([]wasmer.ValueKind{wasmer.I32, wasmer.I32, wasmer.I32, wasmer.I32}, []wasmer.ValueKind{wasmer.I32},
			func(args []wasmer.Value) ([]wasmer.Value, error) {
				key, err := h.slice(args[0].I32(), args[1].I32())
				if err != nil {
					return h.fail(err)
				}
				val, err := h.slice(args[2].I32(), args[3].I32())
				if err != nil {
					return h.fail(err)
				}
				if err := h.ctx.SetStorage(key, val); err != nil {
					return h.fail(err)
				}
				return []wasmer.Value{wasmer.NewI32(0)}, nil
			}),
		"clear_storage": fn([]wasmer.ValueKind{wasmer.I32, wasmer.I32}, []wasmer.ValueKind{wasmer.I32},
			func(args []wasmer.Value) ([]wasmer.Value, error) {
				key, err := h.slice(args[0].I32(), args[1].I32())
				if err != nil {
					return h.fail(err)
				}
				if err := h.ctx.ClearStorage(key); err != nil {
					return h.fail(err)
				}
				return []wasmer.Value{wasmer.NewI32(0)}, nil
			}),
		"now": wasmer.NewFunction(store, wasmer.NewFunctionType(wasmer.NewValueTypes(), wasmer.NewValueTypes(wasmer.I64)),
			func([]wasmer.Value) ([]wasmer.Value, error) {
				return []wasmer.Value{wasmer.NewI64(time.Now().UnixMilli())}, nil
			}),
	})
	return obj
}
