package vm

import "github.com/clydemeng/nftbridge/core/types"

// Executor is the external program runtime the bridge delegates to. A call
// either yields the program's raw return value or an error when the program
// could not be run to completion (missing target, exhausted budget, trap).
// Implementations are expected to return *DispatchError for the latter so the
// failure reason survives; any other error is wrapped by the Bridge.
type Executor interface {
	// Engine returns a short human identifier ("native", "remote", ...).
	Engine() string

	// Call runs exactly one invocation of meta.Target.
	Call(meta *CallMetadata) (*types.ExecReturn, error)
}
