package native

import (
	"encoding/binary"
	"fmt"

	"github.com/clydemeng/nftbridge/core/codec"
	"github.com/clydemeng/nftbridge/core/types"
)

// Code kinds of the built-in token program.
const (
	KindPSP34    = "psp34"     // answers DefaultSelectors
	KindPSP34Ink = "psp34-ink" // answers ink! message selectors
)

func init() {
	MustRegisterCode(KindPSP34, psp34Factory(codec.DefaultSelectors))
	MustRegisterCode(KindPSP34Ink, psp34Factory(codec.InkSelectors()))
}

func psp34Factory(table codec.SelectorTable) CodeFactory {
	return func(types.AccountID, []byte) (Program, error) {
		return &PSP34{selectors: table}, nil
	}
}

// PSP34 is a minimal non-fungible token contract: one owner per item, no
// approvals. Refused operations revert with a codec.Rejection.
type PSP34 struct {
	selectors codec.SelectorTable
}

// NewPSP34 returns the token program answering table.
func NewPSP34(table codec.SelectorTable) *PSP34 { return &PSP34{selectors: table} }

func (p *PSP34) Deterministic() bool { return true }

type mintArgs struct {
	To   types.AccountID
	Item types.ItemID
}

type transferArgs struct {
	To   types.AccountID
	Item types.ItemID
}

func (p *PSP34) Call(ctx *Context) (types.ReturnFlags, []byte, error) {
	payload, err := codec.PayloadFromBytes(ctx.Input)
	if err != nil {
		return 0, nil, err
	}
	op, ok := p.selectors.Lookup(payload.Selector())
	if !ok {
		return 0, nil, fmt.Errorf("psp34: unknown selector %s", payload.Selector())
	}
	args := payload.Args()

	switch op {
	case codec.OpOwnerOf:
		item, err := codec.DecodeResult[types.ItemID](args)
		if err != nil {
			return 0, nil, err
		}
		owner, ok, err := p.owner(ctx, item)
		if err != nil {
			return 0, nil, err
		}
		if !ok {
			return answer(codec.None[types.AccountID]())
		}
		return answer(codec.Some(owner))

	case codec.OpMint:
		a, err := codec.DecodeResult[mintArgs](args)
		if err != nil {
			return 0, nil, err
		}
		if _, exists, err := p.owner(ctx, a.Item); err != nil {
			return 0, nil, err
		} else if exists {
			return reject("token exists")
		}
		if err := ctx.SetStorage(ownerKey(a.Item), a.To[:]); err != nil {
			return 0, nil, err
		}
		return answer(codec.Accepted())

	case codec.OpBurn:
		item, err := codec.DecodeResult[types.ItemID](args)
		if err != nil {
			return 0, nil, err
		}
		if msg, err := p.authorize(ctx, item); err != nil || msg != "" {
			return rejectOrErr(msg, err)
		}
		if err := ctx.ClearStorage(ownerKey(item)); err != nil {
			return 0, nil, err
		}
		return answer(codec.Accepted())

	case codec.OpTransfer:
		a, err := codec.DecodeResult[transferArgs](args)
		if err != nil {
			return 0, nil, err
		}
		if msg, err := p.authorize(ctx, a.Item); err != nil || msg != "" {
			return rejectOrErr(msg, err)
		}
		if err := ctx.SetStorage(ownerKey(a.Item), a.To[:]); err != nil {
			return 0, nil, err
		}
		return answer(codec.Accepted())
	}
	return 0, nil, fmt.Errorf("psp34: unhandled operation %s", op)
}

func (p *PSP34) owner(ctx *Context, item types.ItemID) (types.AccountID, bool, error) {
	raw, ok, err := ctx.GetStorage(ownerKey(item))
	if err != nil || !ok {
		return types.AccountID{}, false, err
	}
	return types.BytesToAccountID(raw), true, nil
}

// authorize returns a rejection message when the caller may not touch item.
func (p *PSP34) authorize(ctx *Context, item types.ItemID) (string, error) {
	owner, ok, err := p.owner(ctx, item)
	switch {
	case err != nil:
		return "", err
	case !ok:
		return "token not found", nil
	case owner != ctx.Caller:
		return "not owner", nil
	}
	return "", nil
}

func ownerKey(item types.ItemID) []byte {
	k := append(make([]byte, 0, 9), "owner"...)
	return binary.LittleEndian.AppendUint32(k, item)
}

func answer(v any) (types.ReturnFlags, []byte, error) {
	out, err := codec.Encode(v)
	return 0, out, err
}

func reject(msg string) (types.ReturnFlags, []byte, error) {
	out, err := codec.Encode(codec.Rejection(msg))
	return types.FlagRevert, out, err
}

func rejectOrErr(msg string, err error) (types.ReturnFlags, []byte, error) {
	if err != nil {
		return 0, nil, err
	}
	return reject(msg)
}
