package nonfungibles

import (
	"fmt"

	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
)

// Owner asks the collection's executor who owns item. The call is read-only,
// moves no value and runs under budget. A failed call comes back as a
// *vm.DispatchError and an unreadable answer as a *codec.DecodeError; neither
// is reported as "no owner".
func (a *Adapter) Owner(caller types.AccountID, collection types.CollectionID, item types.ItemID, budget types.Weight) (types.AccountID, bool, error) {
	payload, err := a.payload(codec.OpOwnerOf, item)
	if err != nil {
		return types.AccountID{}, false, err
	}
	ret, err := a.bridge.Invoke(caller, collection, nil, budget, nil, payload, false, types.Enforced, false)
	if err != nil {
		return types.AccountID{}, false, err
	}
	if ret.Reverted() {
		return types.AccountID{}, false, revertError(collection, ret)
	}
	owner, err := codec.DecodeResult[codec.Option[types.AccountID]](ret.Data)
	if err != nil {
		return types.AccountID{}, false, fmt.Errorf("%s response: %w", codec.OpOwnerOf, err)
	}
	who, ok := owner.Get()
	return who, ok, nil
}

// QueryCollectionOwner always fails with ErrNotQueryable: the executor
// protocol has no collection-owner call.
func (a *Adapter) QueryCollectionOwner(caller types.AccountID, collection types.CollectionID) (types.AccountID, error) {
	return types.AccountID{}, ErrNotQueryable
}

// QueryAttribute always fails with ErrNotQueryable.
func (a *Adapter) QueryAttribute(collection types.CollectionID, item types.ItemID, key []byte) ([]byte, error) {
	return nil, ErrNotQueryable
}

// QueryCollectionAttribute always fails with ErrNotQueryable.
func (a *Adapter) QueryCollectionAttribute(caller types.AccountID, collection types.CollectionID, key []byte) ([]byte, error) {
	return nil, ErrNotQueryable
}

// CollectionOwner answers "unknown" for every collection.
func (a *Adapter) CollectionOwner(caller types.AccountID, collection types.CollectionID) (types.AccountID, bool) {
	who, err := a.QueryCollectionOwner(caller, collection)
	return who, err == nil
}

// Attribute answers "unknown" for every key.
func (a *Adapter) Attribute(collection types.CollectionID, item types.ItemID, key []byte) ([]byte, bool) {
	v, err := a.QueryAttribute(collection, item, key)
	return v, err == nil
}

// CollectionAttribute answers "unknown" for every key.
func (a *Adapter) CollectionAttribute(caller types.AccountID, collection types.CollectionID, key []byte) ([]byte, bool) {
	v, err := a.QueryCollectionAttribute(caller, collection, key)
	return v, err == nil
}

// CanTransfer always allows the transfer. It is a placeholder and must not be
// used for authorization; the executor is the only authority on transfers.
func (a *Adapter) CanTransfer(caller types.AccountID, collection types.CollectionID, item types.ItemID) bool {
	return true
}
