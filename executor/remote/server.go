package remote

import (
	"context"

	"github.com/ethereum/go-ethereum/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
)

// Server exposes a vm.Executor over the Executor gRPC service.
type Server struct {
	UnimplementedExecutorServer
	Executor vm.Executor
}

func (s *Server) Call(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Executor == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing executor")
	}
	if err := ctx.Err(); err != nil {
		return nil, status.FromContextError(err).Err()
	}
	meta, err := decodeRequest(in.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}
	ret, err := s.Executor.Call(meta)
	if err != nil {
		log.Debug("Remote call failed", "target", meta.Target, "reason", vm.ReasonOf(err), "err", err)
		return nil, mapErr(err)
	}
	if ret == nil {
		ret = new(types.ExecReturn)
	}
	out, err := encodeReply(ret)
	if err != nil {
		return nil, status.Error(codes.Internal, err.Error())
	}
	return wrapperspb.Bytes(out), nil
}

func (s *Server) Engine(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	if s == nil || s.Executor == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing executor")
	}
	return wrapperspb.String(s.Executor.Engine()), nil
}
