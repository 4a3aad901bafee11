package nonfungibles

import "errors"

var (
	// ErrUnsupported is returned for operations the executor protocol has no
	// counterpart for. It is deterministic and never worth retrying.
	ErrUnsupported = errors.New("nonfungibles: operation unsupported by executor protocol")

	// ErrNotQueryable tells callers that the executor cannot answer a query,
	// as opposed to answering that there is no value.
	ErrNotQueryable = errors.New("nonfungibles: query not supported by executor protocol")

	// ErrUnauthorized is reserved for transfer policy checks. CanTransfer
	// does not consult the executor yet, so nothing returns it today.
	ErrUnauthorized = errors.New("nonfungibles: not authorized")
)

// ErrRejected wraps the message a program attaches when it refuses a
// mutation without reverting.
var ErrRejected = errors.New("nonfungibles: executor rejected operation")
