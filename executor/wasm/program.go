//go:build wasmer

package wasm

import (
	"errors"
	"fmt"
	"sync"

	lru "github.com/hashicorp/golang-lru"
	"github.com/wasmerio/wasmer-go/wasmer"
	"golang.org/x/crypto/blake2b"

	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/executor/native"
)

// Kind is the code kind wasm contracts are deployed under.
const Kind = "wasm"

const moduleCacheSize = 64

func init() {
	native.MustRegisterCode(Kind, Load)
}

var (
	engineOnce sync.Once
	engine     *wasmer.Engine

	// compiled modules keyed by code hash
	modules, _ = lru.New(moduleCacheSize)
)

func sharedEngine() *wasmer.Engine {
	engineOnce.Do(func() { engine = wasmer.NewEngine() })
	return engine
}

type compiled struct {
	mu            sync.Mutex // wasmer stores are not safe for concurrent use
	store         *wasmer.Store
	module        *wasmer.Module
	deterministic bool
}

// Program is a compiled wasm contract.
type Program struct {
	*compiled
}

// Load compiles code, reusing an earlier compilation of the same bytes.
func Load(_ types.AccountID, code []byte) (native.Program, error) {
	hash := blake2b.Sum256(code)
	if v, ok := modules.Get(hash); ok {
		return &Program{compiled: v.(*compiled)}, nil
	}
	store := wasmer.NewStore(sharedEngine())
	module, err := wasmer.NewModule(store, code)
	if err != nil {
		return nil, fmt.Errorf("wasm: compile: %w", err)
	}
	c := &compiled{store: store, module: module, deterministic: true}
	for _, imp := range module.Imports() {
		det, known := hostImports[imp.Name()]
		if imp.Module() != hostModule || !known {
			return nil, fmt.Errorf("wasm: unsupported import %s.%s", imp.Module(), imp.Name())
		}
		if !det {
			c.deterministic = false
		}
	}
	modules.Add(hash, c)
	return &Program{compiled: c}, nil
}

func (p *Program) Deterministic() bool { return p.deterministic }

// Call instantiates the module afresh, copies the input into its memory and
// runs the exported call function.
func (p *Program) Call(ctx *native.Context) (types.ReturnFlags, []byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	h := &host{ctx: ctx}
	instance, err := wasmer.NewInstance(p.module, h.imports(p.store))
	if err != nil {
		return 0, nil, fmt.Errorf("wasm: instantiate: %w", err)
	}
	defer instance.Close()

	if h.mem, err = instance.Exports.GetMemory("memory"); err != nil {
		return 0, nil, err
	}
	alloc, err := instance.Exports.GetFunction("alloc")
	if err != nil {
		return 0, nil, err
	}
	call, err := instance.Exports.GetFunction("call")
	if err != nil {
		return 0, nil, err
	}

	n := int32(len(ctx.Input))
	res, err := alloc(n)
	if err != nil {
		return 0, nil, h.trap(err)
	}
	ptr, ok := res.(int32)
	if !ok {
		return 0, nil, fmt.Errorf("wasm: alloc returned %T", res)
	}
	in, err := h.slice(ptr, n)
	if err != nil {
		return 0, nil, err
	}
	copy(in, ctx.Input)

	res, err = call(ptr, n)
	if err != nil {
		return 0, nil, h.trap(err)
	}
	packed, ok := res.(int64)
	if !ok {
		return 0, nil, fmt.Errorf("wasm: call returned %T", res)
	}
	out, err := h.slice(int32(uint64(packed)>>32), int32(uint32(packed)))
	if err != nil {
		return 0, nil, err
	}
	if len(out) == 0 {
		return 0, nil, errors.New("wasm: empty output, missing return flags")
	}
	return types.ReturnFlags(out[0]), append([]byte(nil), out[1:]...), nil
}

// trap prefers the host error that caused err, keeping its dispatch reason.
func (h *host) trap(err error) error {
	if h.err != nil {
		return h.err
	}
	return fmt.Errorf("wasm: trap: %w", err)
}
