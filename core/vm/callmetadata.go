package vm

import (
	"github.com/holiman/uint256"

	"github.com/clydemeng/nftbridge/core/types"
)

// CallMetadata carries everything an executor needs to run one call. It is
// built by the Bridge and handed to the Executor unchanged; executors must not
// retain it after Call returns.
type CallMetadata struct {
	Caller types.AccountID    // Identity authorizing and paying for the call
	Target types.CollectionID // Executor instance to invoke
	Value  *uint256.Int       // Amount moved to the target, nil means zero

	// Budget is the caller's ceiling. It is forwarded untouched.
	Budget types.Weight
	// StorageDepositLimit caps the storage deposit the call may incur, nil
	// means no limit beyond what the executor enforces.
	StorageDepositLimit *uint256.Int

	Data         []byte // Selector followed by encoded arguments
	AllowReentry bool   // Whether the program may call back into the caller
	Determinism  types.Determinism

	// Commit asks the executor to persist state changes. Read-only calls
	// leave it false and every write they make is discarded.
	Commit bool
}

// ValueOrZero returns the transferred value, never nil.
func (m *CallMetadata) ValueOrZero() *uint256.Int {
	if m.Value == nil {
		return new(uint256.Int)
	}
	return m.Value
}
