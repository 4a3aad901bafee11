package codec

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"golang.org/x/crypto/blake2b"
)

// Selector is the 4-byte tag that tells the executor which operation a
// payload encodes.
type Selector [4]byte

func (s Selector) String() string { return hexutil.Encode(s[:]) }

// Op enumerates the remote operations the bridge knows how to encode.
type Op uint8

const (
	OpOwnerOf Op = iota
	OpMint
	OpBurn
	OpTransfer
	opCount
)

func (op Op) String() string {
	switch op {
	case OpOwnerOf:
		return "owner_of"
	case OpMint:
		return "mint"
	case OpBurn:
		return "burn"
	case OpTransfer:
		return "transfer"
	}
	return fmt.Sprintf("op(%d)", uint8(op))
}

// Mutating reports whether the operation changes executor state.
func (op Op) Mutating() bool { return op != OpOwnerOf }

// SelectorTable maps every Op to the selector a particular executor expects.
// Changing a value is a breaking protocol change.
type SelectorTable [opCount]Selector

// Selector returns the tag for op.
func (t *SelectorTable) Selector(op Op) Selector { return t[op] }

// Lookup resolves a selector back to its operation.
func (t *SelectorTable) Lookup(sel Selector) (Op, bool) {
	for op := OpOwnerOf; op < opCount; op++ {
		if t[op] == sel {
			return op, true
		}
	}
	return 0, false
}

// Validate checks that no two operations share a selector.
func (t *SelectorTable) Validate() error {
	seen := make(map[Selector]Op, opCount)
	for op := OpOwnerOf; op < opCount; op++ {
		if prev, ok := seen[t[op]]; ok {
			return fmt.Errorf("selector %s used by both %s and %s", t[op], prev, op)
		}
		seen[t[op]] = op
	}
	return nil
}

// DefaultSelectors is the fixed table spoken by the reference executor.
var DefaultSelectors = SelectorTable{
	OpOwnerOf:  {0x56, 0x66, 0x07, 0x08},
	OpMint:     {0x01, 0x02, 0x03, 0x04},
	OpBurn:     {0x04, 0x03, 0x02, 0x01},
	OpTransfer: {0x05, 0x06, 0x07, 0x08},
}

// inkMessages are the PSP34 trait messages behind each operation.
var inkMessages = [opCount]string{
	OpOwnerOf:  "PSP34::owner_of",
	OpMint:     "PSP34Mintable::mint",
	OpBurn:     "PSP34Burnable::burn",
	OpTransfer: "PSP34::transfer",
}

// InkSelectors derives the selector table used by ink! contracts, where a
// trait message selector is the first four bytes of BLAKE2b-256 over the
// fully qualified message name.
func InkSelectors() SelectorTable {
	var t SelectorTable
	for op := OpOwnerOf; op < opCount; op++ {
		t[op] = MessageSelector(inkMessages[op])
	}
	return t
}

// MessageSelector hashes a message label into a selector.
func MessageSelector(label string) Selector {
	h := blake2b.Sum256([]byte(label))
	var s Selector
	copy(s[:], h[:4])
	return s
}

// SelectorsByName returns a well-known table: "fixed" or "ink".
func SelectorsByName(name string) (SelectorTable, error) {
	switch name {
	case "", "fixed":
		return DefaultSelectors, nil
	case "ink":
		return InkSelectors(), nil
	}
	return SelectorTable{}, fmt.Errorf("unknown selector table %q", name)
}
