package core

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"github.com/ethereum/go-ethereum/metrics"

	"github.com/clydemeng/nftbridge/core/nonfungibles"
	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/tracing"
)

const slowOperation = time.Second // operations slower than this are logged

var (
	opSuccessMeter = metrics.NewRegisteredMeter("bridge/processor/success", nil)
	opFailureMeter = metrics.NewRegisteredMeter("bridge/processor/failure", nil)
	batchTimer     = metrics.NewRegisteredTimer("bridge/processor/batch", nil)
)

// OpKind names an asset operation in a batch.
type OpKind string

const (
	OpMint     OpKind = "mint"
	OpBurn     OpKind = "burn"
	OpTransfer OpKind = "transfer"
	OpOwner    OpKind = "owner"
)

// Operation is one step of a batch. Destination is only read by transfers.
type Operation struct {
	Kind        OpKind
	Caller      types.AccountID
	Collection  types.CollectionID
	Item        types.ItemID
	Destination types.AccountID
}

// Receipt status codes.
const (
	ReceiptStatusFailed uint64 = iota
	ReceiptStatusSuccessful
)

// Receipt records what happened to one operation.
type Receipt struct {
	Index  int
	Kind   OpKind
	Status uint64

	// Owner is filled by owner operations that found one.
	Owner    types.AccountID
	HasOwner bool

	Reason  tracing.FailureReason
	Err     error
	Elapsed time.Duration
}

// Failed reports whether the operation did not go through.
func (r *Receipt) Failed() bool { return r.Status == ReceiptStatusFailed }

// Target is what a Processor drives.
type Target interface {
	nonfungibles.Mutate
	nonfungibles.Transfer
}

// Processor applies batches of operations in order, one executor call each.
type Processor struct {
	target Target
	budget types.Weight

	// StopOnFailure aborts the batch at the first failed operation.
	StopOnFailure bool
}

// NewProcessor returns a processor running every operation under budget.
func NewProcessor(target Target, budget types.Weight) *Processor {
	return &Processor{target: target, budget: budget}
}

// Process runs ops and returns one receipt per operation attempted. The error
// is only set when StopOnFailure cut the batch short; the failing operation's
// receipt is the last one returned.
func (p *Processor) Process(ops []Operation) ([]*Receipt, error) {
	start := time.Now()
	defer batchTimer.UpdateSince(start)

	receipts := make([]*Receipt, 0, len(ops))
	failed := 0
	for i := range ops {
		r := p.apply(i, &ops[i])
		receipts = append(receipts, r)
		if !r.Failed() {
			opSuccessMeter.Mark(1)
			continue
		}
		failed++
		opFailureMeter.Mark(1)
		if p.StopOnFailure {
			log.Warn("Batch aborted", "index", i, "kind", r.Kind, "reason", r.Reason, "err", r.Err)
			return receipts, fmt.Errorf("operation %d (%s): %w", i, r.Kind, r.Err)
		}
	}
	log.Info("Processed batch", "ops", len(ops), "failed", failed, "elapsed", time.Since(start))
	return receipts, nil
}

func (p *Processor) apply(i int, op *Operation) *Receipt {
	start := time.Now()
	r := &Receipt{Index: i, Kind: op.Kind}

	var err error
	switch op.Kind {
	case OpMint:
		err = p.target.MintInto(op.Collection, op.Item, op.Caller, p.budget)
	case OpBurn:
		err = p.target.Burn(op.Collection, op.Item, op.Caller, p.budget)
	case OpTransfer:
		err = p.target.Transfer(op.Caller, op.Collection, op.Item, op.Destination, p.budget)
	case OpOwner:
		r.Owner, r.HasOwner, err = p.target.Owner(op.Caller, op.Collection, op.Item, p.budget)
	default:
		err = fmt.Errorf("unknown operation kind %q", op.Kind)
	}
	r.Elapsed = time.Since(start)
	if err != nil {
		r.Err = err
		r.Reason = vm.ReasonOf(err)
		log.Debug("Operation failed", "index", i, "kind", op.Kind, "collection", op.Collection, "item", op.Item, "err", err)
	} else {
		r.Status = ReceiptStatusSuccessful
	}
	if r.Elapsed > slowOperation {
		log.Info("Slow operation", "index", i, "kind", op.Kind, "collection", op.Collection, "elapsed", r.Elapsed)
	}
	return r
}
