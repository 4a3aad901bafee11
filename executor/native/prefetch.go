package native

import (
	"github.com/ethereum/go-ethereum/log"

	"github.com/clydemeng/nftbridge/core/types"
)

// Prefetch loads the programs deployed at addrs into the program cache so
// later calls skip the store lookup. It is best-effort: unknown addresses are
// ignored. It returns how many programs are cached afterwards.
func (e *Executor) Prefetch(addrs ...types.AccountID) int {
	if len(addrs) == 0 {
		return 0
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.db == nil {
		return 0
	}
	st := newOverlay(e.db)
	loaded := 0
	for _, addr := range addrs {
		if _, err := e.program(st, addr); err != nil {
			log.Trace("Skipping prefetch", "address", addr, "err", err)
			continue
		}
		loaded++
	}
	return loaded
}
