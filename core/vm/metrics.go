package vm

import "github.com/ethereum/go-ethereum/metrics"

var (
	callMeter        = metrics.NewRegisteredMeter("bridge/call", nil)
	commitMeter      = metrics.NewRegisteredMeter("bridge/call/commit", nil)
	dispatchErrMeter = metrics.NewRegisteredMeter("bridge/call/failed", nil)
	revertMeter      = metrics.NewRegisteredMeter("bridge/call/reverted", nil)
	callTimer        = metrics.NewRegisteredTimer("bridge/call/duration", nil)
	refTimeGauge     = metrics.NewRegisteredGauge("bridge/call/reftime", nil)
)
