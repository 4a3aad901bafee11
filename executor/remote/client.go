package remote

import (
	"context"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/log"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
	"github.com/clydemeng/nftbridge/tracing"
)

// Client implements vm.Executor over the Executor gRPC service.
type Client struct {
	cc     *grpc.ClientConn
	client ExecutorClient

	// Timeout applies per RPC when non-zero.
	Timeout time.Duration

	engineOnce sync.Once
	engine     string
}

type DialOptions struct {
	// Timeout applies to the initial dial when non-zero.
	Timeout time.Duration

	// CallTimeout becomes Client.Timeout.
	CallTimeout time.Duration

	// MaxMsgBytes sets both send/recv max sizes when non-zero.
	MaxMsgBytes int

	// Extra options, mostly for tests.
	Options []grpc.DialOption
}

func Dial(target string, opts DialOptions) (*Client, error) {
	dialOpts := []grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}
	if opts.MaxMsgBytes > 0 {
		dialOpts = append(dialOpts,
			grpc.WithDefaultCallOptions(
				grpc.MaxCallRecvMsgSize(opts.MaxMsgBytes),
				grpc.MaxCallSendMsgSize(opts.MaxMsgBytes),
			),
		)
	}
	dialOpts = append(dialOpts, opts.Options...)

	ctx := context.Background()
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}
	cc, err := grpc.DialContext(ctx, target, dialOpts...)
	if err != nil {
		return nil, err
	}
	log.Debug("Dialed remote executor", "target", target)
	return &Client{cc: cc, client: NewExecutorClient(cc), Timeout: opts.CallTimeout}, nil
}

func (c *Client) Close() error {
	if c == nil || c.cc == nil {
		return nil
	}
	return c.cc.Close()
}

// Engine asks the server once and caches the answer.
func (c *Client) Engine() string {
	c.engineOnce.Do(func() {
		c.engine = "remote"
		ctx, cancel := c.ctx()
		defer cancel()
		if reply, err := c.client.Engine(ctx, wrapperspb.String("")); err == nil {
			c.engine = "remote/" + reply.GetValue()
		}
	})
	return c.engine
}

// Call forwards meta and rebuilds the outcome. Failures reported by the
// server keep their reason; anything else is ReasonTransport.
func (c *Client) Call(meta *vm.CallMetadata) (*types.ExecReturn, error) {
	if c == nil || c.client == nil {
		return nil, vm.NewDispatchError(tracing.ReasonExecutorMissing, meta.Target, vm.ErrNoExecutor)
	}
	req, err := encodeRequest(meta)
	if err != nil {
		return nil, vm.NewDispatchError(tracing.ReasonTransport, meta.Target, err)
	}
	ctx, cancel := c.ctx()
	defer cancel()

	reply, err := c.client.Call(ctx, wrapperspb.Bytes(req))
	if err != nil {
		return nil, mapRPC(meta.Target, err)
	}
	ret, err := decodeReply(reply.GetValue())
	if err != nil {
		return nil, vm.NewDispatchError(tracing.ReasonTransport, meta.Target, err)
	}
	return ret, nil
}

func (c *Client) ctx() (context.Context, context.CancelFunc) {
	if c.Timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), c.Timeout)
}
