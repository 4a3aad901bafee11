package types

import "fmt"

// Weight bounds the computation an executor may spend on a single call. Both
// dimensions are ceilings: reference time in picoseconds of execution and
// proof size in bytes of state witnessed.
type Weight struct {
	RefTime   uint64
	ProofSize uint64
}

// WeightFromParts builds a Weight from its two dimensions.
func WeightFromParts(refTime, proofSize uint64) Weight {
	return Weight{RefTime: refTime, ProofSize: proofSize}
}

// IsZero reports whether no budget was supplied at all.
func (w Weight) IsZero() bool { return w.RefTime == 0 && w.ProofSize == 0 }

// AnyGt reports whether any dimension of w exceeds the one in o.
func (w Weight) AnyGt(o Weight) bool {
	return w.RefTime > o.RefTime || w.ProofSize > o.ProofSize
}

// Add returns the component-wise sum, saturating at the uint64 ceiling.
func (w Weight) Add(o Weight) Weight {
	return Weight{RefTime: satAdd(w.RefTime, o.RefTime), ProofSize: satAdd(w.ProofSize, o.ProofSize)}
}

func (w Weight) String() string {
	return fmt.Sprintf("ref_time=%d proof_size=%d", w.RefTime, w.ProofSize)
}

func satAdd(a, b uint64) uint64 {
	if c := a + b; c >= a {
		return c
	}
	return ^uint64(0)
}

// Determinism tells the executor which code paths it may take.
type Determinism uint8

const (
	// Enforced only allows deterministic execution. State-mutating calls must
	// use it so their results are reproducible.
	Enforced Determinism = iota
	// Relaxed additionally allows non-deterministic code paths.
	Relaxed
)

func (d Determinism) String() string {
	switch d {
	case Enforced:
		return "enforced"
	case Relaxed:
		return "relaxed"
	}
	return fmt.Sprintf("determinism(%d)", uint8(d))
}

// ReturnFlags are set by the executed program alongside its output.
type ReturnFlags uint32

// FlagRevert signals that the program rejected the call and that its state
// changes were rolled back. Data still carries the program's output.
const FlagRevert ReturnFlags = 1 << 0

// ExecReturn is the raw outcome of a call the executor managed to run.
type ExecReturn struct {
	Flags       ReturnFlags
	Data        []byte
	GasConsumed Weight
}

// Reverted reports whether the program signalled a revert.
func (r *ExecReturn) Reverted() bool { return r != nil && r.Flags&FlagRevert != 0 }
