package remote

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/executor/native"
	"github.com/clydemeng/nftbridge/tracing"
)

var (
	alice  = types.BytesToAccountID([]byte{0xa1})
	budget = types.WeightFromParts(10_000_000, 100_000)
)

func startServer(t *testing.T) (*native.Executor, *Client, func()) {
	t.Helper()
	exec, err := native.NewMemory()
	require.NoError(t, err)

	lis := bufconn.Listen(1024 * 1024)
	srv := grpc.NewServer()
	RegisterExecutorServer(srv, &Server{Executor: exec})
	go func() {
		_ = srv.Serve(lis)
	}()

	dialer := func(ctx context.Context, s string) (net.Conn, error) { return lis.Dial() }
	client, err := Dial("bufnet", DialOptions{
		CallTimeout: 2 * time.Second,
		Options:     []grpc.DialOption{grpc.WithContextDialer(dialer)},
	})
	require.NoError(t, err)

	stop := func() { srv.Stop() }
	t.Cleanup(func() {
		client.Close()
		srv.Stop()
		exec.Close()
	})
	return exec, client, stop
}

func mintMeta(t *testing.T, target types.AccountID, item types.ItemID) *vm.CallMetadata {
	t.Helper()
	p, err := codec.EncodeCall(codec.DefaultSelectors.Selector(codec.OpMint), alice, item)
	require.NoError(t, err)
	return &vm.CallMetadata{Caller: alice, Target: target, Budget: budget, Data: p.Bytes(), Commit: true,
		StorageDepositLimit: uint256.NewInt(1_000)}
}

func TestRemoteCall(t *testing.T) {
	exec, client, _ := startServer(t)
	c, err := exec.Deploy(alice, native.KindPSP34, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, "remote/native", client.Engine())

	ret, err := client.Call(mintMeta(t, c, 42))
	require.NoError(t, err)
	assert.False(t, ret.Reverted())
	assert.Equal(t, []byte{0}, ret.Data)
	assert.False(t, ret.GasConsumed.IsZero())

	ret, err = client.Call(mintMeta(t, c, 42))
	require.NoError(t, err)
	assert.True(t, ret.Reverted(), "revert flag survives the wire")
}

func TestRemoteErrorsKeepReason(t *testing.T) {
	exec, client, _ := startServer(t)
	c, err := exec.Deploy(alice, native.KindPSP34, nil, nil)
	require.NoError(t, err)

	_, err = client.Call(mintMeta(t, alice, 1))
	require.ErrorIs(t, err, vm.ErrDispatch)
	assert.ErrorIs(t, err, vm.ErrExecutorMissing)
	assert.Equal(t, tracing.ReasonExecutorMissing, vm.ReasonOf(err))

	meta := mintMeta(t, c, 1)
	meta.Budget = types.WeightFromParts(1, 1)
	_, err = client.Call(meta)
	assert.ErrorIs(t, err, vm.ErrOutOfBudget)

	meta = mintMeta(t, c, 1)
	meta.StorageDepositLimit = uint256.NewInt(1)
	_, err = client.Call(meta)
	assert.Equal(t, tracing.ReasonStorageDepositLimit, vm.ReasonOf(err))

	meta = mintMeta(t, c, 1)
	meta.Value = uint256.NewInt(5)
	_, err = client.Call(meta)
	assert.Equal(t, tracing.ReasonInsufficientBalance, vm.ReasonOf(err))
}

func TestRemoteTransportFailure(t *testing.T) {
	_, client, stop := startServer(t)
	stop()

	_, err := client.Call(mintMeta(t, alice, 1))
	require.ErrorIs(t, err, vm.ErrDispatch)
	assert.Equal(t, tracing.ReasonTransport, vm.ReasonOf(err))
}

type countingExecutor struct{ calls int }

func (c *countingExecutor) Engine() string { return "counting" }

func (c *countingExecutor) Call(*vm.CallMetadata) (*types.ExecReturn, error) {
	c.calls++
	return &types.ExecReturn{}, nil
}

func TestServerSkipsCancelledCalls(t *testing.T) {
	body, err := encodeRequest(mintMeta(t, alice, 1))
	require.NoError(t, err)

	exec := new(countingExecutor)
	srv := &Server{Executor: exec}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = srv.Call(ctx, wrapperspb.Bytes(body))
	assert.Equal(t, codes.Canceled, status.Code(err))
	assert.Zero(t, exec.calls)

	_, err = srv.Call(context.Background(), wrapperspb.Bytes(body))
	require.NoError(t, err)
	assert.Equal(t, 1, exec.calls)
}

func TestWireRoundTrip(t *testing.T) {
	meta := mintMeta(t, alice, 7)
	meta.Value = uint256.NewInt(300)
	meta.Determinism = types.Relaxed
	meta.AllowReentry = true

	b, err := encodeRequest(meta)
	require.NoError(t, err)
	got, err := decodeRequest(b)
	require.NoError(t, err)
	assert.Equal(t, meta.Caller, got.Caller)
	assert.Equal(t, meta.Target, got.Target)
	assert.Equal(t, meta.Budget, got.Budget)
	assert.Equal(t, meta.Data, got.Data)
	assert.Equal(t, uint64(300), got.Value.Uint64())
	assert.Equal(t, uint64(1_000), got.StorageDepositLimit.Uint64())
	assert.True(t, got.AllowReentry)
	assert.Equal(t, types.Relaxed, got.Determinism)

	meta.StorageDepositLimit = nil
	b, err = encodeRequest(meta)
	require.NoError(t, err)
	got, err = decodeRequest(b)
	require.NoError(t, err)
	assert.Nil(t, got.StorageDepositLimit)

	_, err = decodeRequest(b[:len(b)-1])
	assert.ErrorIs(t, err, codec.ErrDecode)
}
