package remote

import (
	"github.com/holiman/uint256"

	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
	"github.com/clydemeng/nftbridge/core/vm"
)

// callRequest is vm.CallMetadata as it travels. Amounts are 32-byte
// big-endian.
type callRequest struct {
	Caller       types.AccountID
	Target       types.AccountID
	Value        [32]byte
	Budget       types.Weight
	DepositLimit codec.Option[[32]byte]
	Data         []byte
	AllowReentry bool
	Determinism  types.Determinism
	Commit       bool
}

type callReply struct {
	Flags     types.ReturnFlags
	Data      []byte
	RefTime   uint64
	ProofSize uint64
}

func encodeRequest(meta *vm.CallMetadata) ([]byte, error) {
	req := callRequest{
		Caller:       meta.Caller,
		Target:       meta.Target,
		Value:        meta.ValueOrZero().Bytes32(),
		Budget:       meta.Budget,
		Data:         meta.Data,
		AllowReentry: meta.AllowReentry,
		Determinism:  meta.Determinism,
		Commit:       meta.Commit,
	}
	if meta.StorageDepositLimit != nil {
		req.DepositLimit = codec.Some(meta.StorageDepositLimit.Bytes32())
	}
	return codec.Encode(req)
}

func decodeRequest(b []byte) (*vm.CallMetadata, error) {
	req, err := codec.DecodeResult[callRequest](b)
	if err != nil {
		return nil, err
	}
	meta := &vm.CallMetadata{
		Caller:       req.Caller,
		Target:       req.Target,
		Value:        new(uint256.Int).SetBytes32(req.Value[:]),
		Budget:       req.Budget,
		Data:         req.Data,
		AllowReentry: req.AllowReentry,
		Determinism:  req.Determinism,
		Commit:       req.Commit,
	}
	if limit, ok := req.DepositLimit.Get(); ok {
		meta.StorageDepositLimit = new(uint256.Int).SetBytes32(limit[:])
	}
	return meta, nil
}

func encodeReply(ret *types.ExecReturn) ([]byte, error) {
	return codec.Encode(callReply{
		Flags:     ret.Flags,
		Data:      ret.Data,
		RefTime:   ret.GasConsumed.RefTime,
		ProofSize: ret.GasConsumed.ProofSize,
	})
}

func decodeReply(b []byte) (*types.ExecReturn, error) {
	r, err := codec.DecodeResult[callReply](b)
	if err != nil {
		return nil, err
	}
	return &types.ExecReturn{
		Flags:       r.Flags,
		Data:        r.Data,
		GasConsumed: types.WeightFromParts(r.RefTime, r.ProofSize),
	}, nil
}
