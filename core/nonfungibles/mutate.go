package nonfungibles

import (
	"fmt"

	"github.com/ethereum/go-ethereum/log"

	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/tracing"
)

// MintInto creates item in collection owned by who. who also signs the call.
func (a *Adapter) MintInto(collection types.CollectionID, item types.ItemID, who types.AccountID, budget types.Weight) error {
	return a.mutate(codec.OpMint, who, collection, item, budget, who, item)
}

// Burn destroys item. authorizer signs the call; whether it may burn is for
// the executor to decide.
func (a *Adapter) Burn(collection types.CollectionID, item types.ItemID, authorizer types.AccountID, budget types.Weight) error {
	return a.mutate(codec.OpBurn, authorizer, collection, item, budget, item)
}

// SetAttribute always fails: the executor protocol cannot store attributes.
func (a *Adapter) SetAttribute(collection types.CollectionID, item types.ItemID, key, value []byte) error {
	return ErrUnsupported
}

// SetCollectionAttribute always fails: the executor protocol cannot store
// attributes.
func (a *Adapter) SetCollectionAttribute(collection types.CollectionID, key, value []byte) error {
	return ErrUnsupported
}

// mutate runs a committing, deterministic call and turns the executor's
// verdict into an error.
func (a *Adapter) mutate(op codec.Op, caller types.AccountID, collection types.CollectionID, item types.ItemID, budget types.Weight, args ...any) error {
	payload, err := a.payload(op, args...)
	if err != nil {
		return err
	}
	ret, err := a.bridge.Invoke(caller, collection, nil, budget, nil, payload, false, types.Enforced, true)
	if err != nil {
		return err
	}
	if err := checkOutcome(op, collection, ret); err != nil {
		return err
	}
	log.Debug("Applied item mutation", "op", op, "collection", collection, "item", item, "caller", caller, "consumed", ret.GasConsumed)
	return nil
}

func checkOutcome(op codec.Op, collection types.CollectionID, ret *types.ExecReturn) error {
	if ret.Reverted() {
		return revertError(collection, ret)
	}
	out, err := codec.DecodeOutcome(ret.Data)
	if err != nil {
		return fmt.Errorf("%s response: %w", op, err)
	}
	if out.Rejected {
		return vm.NewDispatchError(tracing.ReasonRejected, collection, fmt.Errorf("%w: %s", ErrRejected, out.Message))
	}
	return nil
}

// revertError reports a rolled back call, quoting the program's rejection
// message when its output carries one.
func revertError(collection types.CollectionID, ret *types.ExecReturn) error {
	cause := vm.ErrExecutionReverted
	if out, err := codec.DecodeOutcome(ret.Data); err == nil && out.Rejected {
		cause = fmt.Errorf("%w: %s", vm.ErrExecutionReverted, out.Message)
	}
	derr := vm.NewDispatchError(tracing.ReasonReverted, collection, cause)
	derr.Data = append([]byte(nil), ret.Data...)
	return derr
}
