// Package nonfungibles exposes a typed non-fungible asset interface whose state
// lives entirely inside an external executor. Each remote operation encodes a
// selector and its arguments, runs one call through the bridge and decodes
// the answer. Capabilities the executor protocol lacks answer with a fixed
// value or ErrUnsupported without reaching the executor.
package nonfungibles

import (
	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
)

// Inspect is the read-only capability set.
type Inspect interface {
	Owner(caller types.AccountID, collection types.CollectionID, item types.ItemID, budget types.Weight) (types.AccountID, bool, error)
	CollectionOwner(caller types.AccountID, collection types.CollectionID) (types.AccountID, bool)
	Attribute(collection types.CollectionID, item types.ItemID, key []byte) ([]byte, bool)
	CollectionAttribute(caller types.AccountID, collection types.CollectionID, key []byte) ([]byte, bool)
	CanTransfer(caller types.AccountID, collection types.CollectionID, item types.ItemID) bool
}

// Mutate is the state-changing capability set.
type Mutate interface {
	Inspect
	MintInto(collection types.CollectionID, item types.ItemID, who types.AccountID, budget types.Weight) error
	Burn(collection types.CollectionID, item types.ItemID, authorizer types.AccountID, budget types.Weight) error
	SetAttribute(collection types.CollectionID, item types.ItemID, key, value []byte) error
	SetCollectionAttribute(collection types.CollectionID, key, value []byte) error
}

// Transfer moves items between accounts.
type Transfer interface {
	Inspect
	Transfer(who types.AccountID, collection types.CollectionID, item types.ItemID, destination types.AccountID, budget types.Weight) error
}

// Adapter implements Inspect, Mutate and Transfer on top of a vm.Bridge.
type Adapter struct {
	bridge    *vm.Bridge
	selectors codec.SelectorTable
}

var (
	_ Mutate   = (*Adapter)(nil)
	_ Transfer = (*Adapter)(nil)
)

// New returns an adapter speaking the given selector table through bridge.
func New(bridge *vm.Bridge, selectors codec.SelectorTable) *Adapter {
	return &Adapter{bridge: bridge, selectors: selectors}
}

// NewDefault returns an adapter using codec.DefaultSelectors.
func NewDefault(bridge *vm.Bridge) *Adapter {
	return New(bridge, codec.DefaultSelectors)
}

// Engine reports which executor backs this adapter.
func (a *Adapter) Engine() string { return a.bridge.Engine() }

// Selectors returns the selector table in use.
func (a *Adapter) Selectors() codec.SelectorTable { return a.selectors }

func (a *Adapter) payload(op codec.Op, args ...any) (codec.Payload, error) {
	return codec.EncodeCall(a.selectors.Selector(op), args...)
}
