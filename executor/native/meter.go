package native

import (
	"fmt"

	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/tracing"
)

// Schedule prices the host operations a program performs.
type Schedule struct {
	Base    types.Weight // charged once per call
	Read    types.Weight // per storage read
	Write   types.Weight // per storage write or clear
	PerByte types.Weight // per byte of input, output and stored value

	// DepositPerByte is the storage deposit for every byte a call adds.
	DepositPerByte uint64
}

// DefaultSchedule is used by New.
var DefaultSchedule = Schedule{
	Base:           types.WeightFromParts(10_000, 0),
	Read:           types.WeightFromParts(25_000, 96),
	Write:          types.WeightFromParts(50_000, 96),
	PerByte:        types.WeightFromParts(100, 1),
	DepositPerByte: 1,
}

// meter tracks consumption against the caller's budget.
type meter struct {
	limit    types.Weight
	consumed types.Weight
	target   types.AccountID
}

func (m *meter) charge(w types.Weight) error {
	m.consumed = m.consumed.Add(w)
	if m.consumed.AnyGt(m.limit) {
		return vm.NewDispatchError(tracing.ReasonOutOfBudget, m.target,
			fmt.Errorf("%w: need %v, limit %v", vm.ErrOutOfBudget, m.consumed, m.limit))
	}
	return nil
}

func (m *meter) chargeBytes(per types.Weight, n int) error {
	return m.charge(types.WeightFromParts(per.RefTime*uint64(n), per.ProofSize*uint64(n)))
}
