package types

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountIDHex(t *testing.T) {
	a := BytesToAccountID([]byte{0x01, 0x02})
	assert.Equal(t, "0x"+strings.Repeat("0", 60)+"0102", a.Hex())

	b, err := HexToAccountID(a.Hex())
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = HexToAccountID("0x0102")
	assert.Error(t, err)
	_, err = HexToAccountID("nothex")
	assert.Error(t, err)
}

func TestAccountIDScale(t *testing.T) {
	a := BytesToAccountID([]byte{0xde, 0xad, 0xbe, 0xef})

	var buf bytes.Buffer
	require.NoError(t, scale.NewEncoder(&buf).Encode(a))
	assert.Equal(t, a[:], buf.Bytes())

	var got AccountID
	require.NoError(t, scale.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&got))
	assert.Equal(t, a, got)

	type mint struct {
		Who  AccountID
		Item ItemID
	}
	buf.Reset()
	require.NoError(t, scale.NewEncoder(&buf).Encode(mint{Who: a, Item: 42}))
	require.Len(t, buf.Bytes(), AccountIDLength+4)

	var m mint
	require.NotPanics(t, func() {
		require.NoError(t, scale.NewDecoder(bytes.NewReader(buf.Bytes())).Decode(&m))
	})
	assert.Equal(t, a, m.Who)
	assert.Equal(t, ItemID(42), m.Item)
}

func TestAccountIDCrop(t *testing.T) {
	long := make([]byte, 40)
	long[39] = 9
	a := BytesToAccountID(long)
	assert.Equal(t, byte(9), a[31])
	assert.False(t, a.IsZero())
	assert.True(t, AccountID{}.IsZero())
}

func TestAccountIDText(t *testing.T) {
	a := BytesToAccountID([]byte{0xff})
	enc, err := json.Marshal(a)
	require.NoError(t, err)

	var b AccountID
	require.NoError(t, json.Unmarshal(enc, &b))
	assert.Equal(t, a, b)
	assert.Equal(t, "000000..0000ff", a.TerminalString())
}

func TestWeight(t *testing.T) {
	assert.True(t, Weight{}.IsZero())
	assert.False(t, WeightFromParts(0, 1).IsZero())

	w := WeightFromParts(10, 20)
	assert.True(t, WeightFromParts(11, 0).AnyGt(w))
	assert.True(t, WeightFromParts(0, 21).AnyGt(w))
	assert.False(t, w.AnyGt(w))

	sum := WeightFromParts(math.MaxUint64-1, 1).Add(WeightFromParts(5, 2))
	assert.Equal(t, WeightFromParts(math.MaxUint64, 3), sum, "ref time saturates")
}

func TestExecReturn(t *testing.T) {
	var nilRet *ExecReturn
	assert.False(t, nilRet.Reverted())
	assert.True(t, (&ExecReturn{Flags: FlagRevert | 1<<4}).Reverted())
	assert.False(t, (&ExecReturn{Flags: 1 << 4}).Reverted())
	assert.Equal(t, "enforced", Enforced.String())
	assert.Equal(t, "relaxed", Relaxed.String())
}
