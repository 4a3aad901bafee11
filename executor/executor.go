// Package executor picks the backend the bridge talks to: a gRPC client when
// a remote address is configured, the in-process native executor otherwise.
// Builds with the wasmer tag also accept wasm contract code.
package executor

import (
	"time"

	"github.com/ethereum/go-ethereum/log"

	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/executor/native"
	"github.com/clydemeng/nftbridge/executor/remote"
)

// Backend is an executor that holds resources.
type Backend interface {
	vm.Executor
	Close() error
}

// Options selects and configures the backend.
type Options struct {
	DataDir     string        // native store location, empty for memory
	Remote      string        // gRPC target, overrides DataDir
	DialTimeout time.Duration // remote only
	CallTimeout time.Duration // remote only
}

// NewExecutor opens the backend described by opts.
func NewExecutor(opts Options) (Backend, error) {
	if opts.Remote != "" {
		c, err := remote.Dial(opts.Remote, remote.DialOptions{Timeout: opts.DialTimeout, CallTimeout: opts.CallTimeout})
		if err != nil {
			return nil, err
		}
		log.Info("Using remote executor", "target", opts.Remote)
		return c, nil
	}
	var (
		exec *native.Executor
		err  error
	)
	if opts.DataDir == "" {
		exec, err = native.NewMemory()
	} else {
		exec, err = native.Open(opts.DataDir)
	}
	if err != nil {
		return nil, err
	}
	log.Info("Using native executor", "datadir", opts.DataDir, "wasm", WasmEnabled, "kinds", native.CodeKinds())
	return exec, nil
}
