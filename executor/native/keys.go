package native

import "github.com/clydemeng/nftbridge/core/types"

// Database key layout. Every key starts with a one byte table prefix followed
// by the 32-byte account it belongs to.
var (
	contractPrefix = []byte("c") // contractPrefix + address -> contractRecord
	balancePrefix  = []byte("b") // balancePrefix + address -> uint256 big-endian
	storagePrefix  = []byte("s") // storagePrefix + address + program key -> value
)

func contractKey(addr types.AccountID) []byte {
	return append(append([]byte(nil), contractPrefix...), addr[:]...)
}

func balanceKey(addr types.AccountID) []byte {
	return append(append([]byte(nil), balancePrefix...), addr[:]...)
}

func storageKey(addr types.AccountID, key []byte) []byte {
	out := make([]byte, 0, len(storagePrefix)+len(addr)+len(key))
	out = append(out, storagePrefix...)
	out = append(out, addr[:]...)
	return append(out, key...)
}
