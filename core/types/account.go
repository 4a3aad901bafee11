package types

import (
	"fmt"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// AccountIDLength is the byte length of an account identity.
const AccountIDLength = 32

// AccountID identifies a caller or an account. It encodes as its 32 raw bytes.
type AccountID [AccountIDLength]byte

// CollectionID names an asset collection. The same value is the address of the
// executor program that owns the collection's state, so every operation on a
// collection is routed to exactly one executor instance.
type CollectionID = AccountID

// ItemID identifies an item inside a collection. Uniqueness is the executor's
// business, not ours.
type ItemID = uint32

// BytesToAccountID returns the AccountID with value b. If b is larger than
// AccountIDLength it is cropped from the left, mirroring common.BytesToHash.
func BytesToAccountID(b []byte) AccountID {
	var a AccountID
	if len(b) > len(a) {
		b = b[len(b)-AccountIDLength:]
	}
	copy(a[AccountIDLength-len(b):], b)
	return a
}

// HexToAccountID parses a 0x-prefixed, 64 hex digit identity.
func HexToAccountID(s string) (AccountID, error) {
	b, err := hexutil.Decode(s)
	if err != nil {
		return AccountID{}, fmt.Errorf("invalid account id %q: %w", s, err)
	}
	if len(b) != AccountIDLength {
		return AccountID{}, fmt.Errorf("invalid account id %q: want %d bytes, have %d", s, AccountIDLength, len(b))
	}
	return BytesToAccountID(b), nil
}

// Bytes returns a copy of the raw identity bytes.
func (a AccountID) Bytes() []byte { return append([]byte(nil), a[:]...) }

// Hex returns the 0x-prefixed hex form.
func (a AccountID) Hex() string { return hexutil.Encode(a[:]) }

// String implements fmt.Stringer.
func (a AccountID) String() string { return a.Hex() }

// IsZero reports whether a is the all-zero identity.
func (a AccountID) IsZero() bool { return a == AccountID{} }

// TerminalString is used by the log terminal handler to shorten long values.
func (a AccountID) TerminalString() string {
	return fmt.Sprintf("%x..%x", a[:3], a[29:])
}

// MarshalText implements encoding.TextMarshaler.
func (a AccountID) MarshalText() ([]byte, error) {
	return hexutil.Bytes(a[:]).MarshalText()
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *AccountID) UnmarshalText(input []byte) error {
	id, err := HexToAccountID(string(input))
	if err != nil {
		return err
	}
	*a = id
	return nil
}

// Encode writes the identity as 32 raw bytes. Decoding needs no method: the
// scale decoder reads a fixed-size byte array element by element, and a
// Decode method on an array type sends it down its slice path instead.
func (a AccountID) Encode(e scale.Encoder) error {
	return e.Write(a[:])
}
