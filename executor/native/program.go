package native

import (
	"github.com/holiman/uint256"

	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/tracing"
)

// Program is contract code the host can run. A returned error traps the call:
// all its writes are dropped and the caller sees a dispatch failure. A
// program that wants to refuse a call gracefully returns FlagRevert instead.
type Program interface {
	// Deterministic reports whether every code path of the program is
	// deterministic.
	Deterministic() bool

	Call(ctx *Context) (types.ReturnFlags, []byte, error)
}

// Context is the host interface handed to a running program.
type Context struct {
	Caller       types.AccountID
	Address      types.AccountID
	Value        *uint256.Int
	Input        []byte
	AllowReentry bool
	Determinism  types.Determinism

	state   *overlay
	meter   *meter
	sched   *Schedule
	deposit uint64
}

// GetStorage reads a key from the program's own storage.
func (c *Context) GetStorage(key []byte) ([]byte, bool, error) {
	if err := c.meter.charge(c.sched.Read); err != nil {
		return nil, false, err
	}
	v, ok, err := c.state.get(storageKey(c.Address, key))
	if err != nil {
		return nil, false, vm.NewDispatchError(tracing.ReasonTrapped, c.Address, err)
	}
	if err := c.meter.chargeBytes(c.sched.PerByte, len(v)); err != nil {
		return nil, false, err
	}
	return v, ok, nil
}

// SetStorage writes a key. Bytes added beyond what the key held before are
// charged as storage deposit.
func (c *Context) SetStorage(key, value []byte) error {
	if err := c.meter.charge(c.sched.Write); err != nil {
		return err
	}
	if err := c.meter.chargeBytes(c.sched.PerByte, len(value)); err != nil {
		return err
	}
	sk := storageKey(c.Address, key)
	prev, existed, err := c.state.get(sk)
	if err != nil {
		return vm.NewDispatchError(tracing.ReasonTrapped, c.Address, err)
	}
	added := len(value) - len(prev)
	if !existed {
		added += len(key)
	}
	if added > 0 {
		c.deposit += uint64(added) * c.sched.DepositPerByte
	}
	c.state.put(sk, value)
	return nil
}

// ClearStorage removes a key.
func (c *Context) ClearStorage(key []byte) error {
	if err := c.meter.charge(c.sched.Write); err != nil {
		return err
	}
	c.state.delete(storageKey(c.Address, key))
	return nil
}

// Charge consumes weight on behalf of the program.
func (c *Context) Charge(w types.Weight) error { return c.meter.charge(w) }

// Consumed reports the weight used so far.
func (c *Context) Consumed() types.Weight { return c.meter.consumed }
