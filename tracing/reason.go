package tracing

// FailureReason describes why a call did not produce a usable outcome.
type FailureReason int

const (
	ReasonUnspecified FailureReason = iota
	ReasonNoBudget
	ReasonNondeterministic
	ReasonExecutorMissing
	ReasonOutOfBudget
	ReasonTrapped
	ReasonReverted
	ReasonRejected
	ReasonStorageDepositLimit
	ReasonInsufficientBalance
	ReasonTransport
)

// String returns a human-readable string for the reason.
func (r FailureReason) String() string {
	switch r {
	case ReasonUnspecified:
		return "unspecified"
	case ReasonNoBudget:
		return "no_budget"
	case ReasonNondeterministic:
		return "nondeterministic"
	case ReasonExecutorMissing:
		return "executor_missing"
	case ReasonOutOfBudget:
		return "out_of_budget"
	case ReasonTrapped:
		return "trapped"
	case ReasonReverted:
		return "reverted"
	case ReasonRejected:
		return "rejected"
	case ReasonStorageDepositLimit:
		return "storage_deposit_limit"
	case ReasonInsufficientBalance:
		return "insufficient_balance"
	case ReasonTransport:
		return "transport"
	}
	return "unknown"
}

// ParseFailureReason is the inverse of String. Unknown names map to
// ReasonUnspecified.
func ParseFailureReason(s string) FailureReason {
	for r := ReasonUnspecified; r <= ReasonTransport; r++ {
		if r.String() == s {
			return r
		}
	}
	return ReasonUnspecified
}
