package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ethereum/go-ethereum/log"
	"github.com/gofrs/flock"

	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/nonfungibles"
	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/executor"
	"github.com/clydemeng/nftbridge/executor/native"
)

var errNeedLocal = errors.New("command needs a local executor, drop --remote")

// node bundles the opened executor with the locks and adapters built on it.
type node struct {
	cfg     *Config
	backend executor.Backend
	lock    *flock.Flock
	adapter *nonfungibles.Adapter
}

// openNode opens the configured executor. A local data directory is locked
// for the lifetime of the node.
func openNode(cfg *Config) (*node, error) {
	n := &node{cfg: cfg}
	opts := executor.Options{Remote: cfg.Remote}
	if cfg.Remote == "" && cfg.DataDir != "" {
		if err := os.MkdirAll(cfg.DataDir, 0o700); err != nil {
			return nil, err
		}
		n.lock = flock.New(filepath.Join(cfg.DataDir, "LOCK"))
		locked, err := n.lock.TryLock()
		if err != nil {
			return nil, err
		}
		if !locked {
			return nil, fmt.Errorf("datadir %s already used by another process", cfg.DataDir)
		}
		opts.DataDir = filepath.Join(cfg.DataDir, "state")
	}
	backend, err := executor.NewExecutor(opts)
	if err != nil {
		n.unlock()
		return nil, err
	}
	n.backend = backend

	table, err := codec.SelectorsByName(cfg.Selectors)
	if err != nil {
		n.Close()
		return nil, err
	}
	n.adapter = nonfungibles.New(vm.NewBridge(backend), table)
	return n, nil
}

// native returns the local executor, for commands that manage contracts.
func (n *node) native() (*native.Executor, error) {
	exec, ok := n.backend.(*native.Executor)
	if !ok {
		return nil, errNeedLocal
	}
	return exec, nil
}

func (n *node) Close() error {
	var err error
	if n.backend != nil {
		err = n.backend.Close()
	}
	n.unlock()
	return err
}

func (n *node) unlock() {
	if n.lock == nil {
		return
	}
	if err := n.lock.Unlock(); err != nil {
		log.Warn("Failed to release datadir lock", "err", err)
	}
}
