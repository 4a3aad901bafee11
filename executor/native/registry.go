package native

import (
	"fmt"
	"sort"
	"sync"

	"github.com/clydemeng/nftbridge/core/types"
)

// CodeFactory turns stored contract code into a runnable Program. Factories
// are looked up by the code kind recorded at deployment.
type CodeFactory func(address types.AccountID, code []byte) (Program, error)

// codeRegistry keeps every known code kind. Backends register themselves in
// init(), so a binary only knows the kinds it imports.
var codeRegistry sync.Map // map[string]CodeFactory

// RegisterCode makes a code kind deployable. Registering a kind twice is an
// error.
func RegisterCode(kind string, factory CodeFactory) error {
	if kind == "" {
		return fmt.Errorf("native: code kind is required")
	}
	if factory == nil {
		return fmt.Errorf("native: code kind %q missing factory", kind)
	}
	if _, loaded := codeRegistry.LoadOrStore(kind, factory); loaded {
		return fmt.Errorf("native: code kind %q already registered", kind)
	}
	return nil
}

// MustRegisterCode is like RegisterCode but panics on error.
func MustRegisterCode(kind string, factory CodeFactory) {
	if err := RegisterCode(kind, factory); err != nil {
		panic(err)
	}
}

// CodeKinds lists the registered kinds, sorted.
func CodeKinds() []string {
	var kinds []string
	codeRegistry.Range(func(key, _ any) bool {
		kinds = append(kinds, key.(string))
		return true
	})
	sort.Strings(kinds)
	return kinds
}

func lookupCode(kind string) (CodeFactory, bool) {
	if v, ok := codeRegistry.Load(kind); ok {
		return v.(CodeFactory), true
	}
	return nil, false
}
