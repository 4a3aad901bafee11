package codec

import (
	"fmt"
	"math/big"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Option is the SCALE Option<T>: a 0x00 tag for None, or 0x01 followed by
// the encoded value.
type Option[T any] struct {
	Some  bool
	Value T
}

// Some wraps v in a present Option.
func Some[T any](v T) Option[T] { return Option[T]{Some: true, Value: v} }

// None returns an absent Option.
func None[T any]() Option[T] { return Option[T]{} }

// Get returns the value and whether it is present.
func (o Option[T]) Get() (T, bool) { return o.Value, o.Some }

func (o Option[T]) Encode(e scale.Encoder) error {
	if !o.Some {
		return e.PushByte(0)
	}
	if err := e.PushByte(1); err != nil {
		return err
	}
	return e.Encode(o.Value)
}

func (o *Option[T]) Decode(d scale.Decoder) error {
	tag, err := d.ReadOneByte()
	if err != nil {
		return err
	}
	switch tag {
	case 0:
		*o = Option[T]{}
		return nil
	case 1:
		var v T
		if err := d.Decode(&v); err != nil {
			return err
		}
		*o = Option[T]{Some: true, Value: v}
		return nil
	}
	return fmt.Errorf("%w: option tag %#x", ErrMalformed, tag)
}

// MaxMessageLen caps the rejection message an executor may attach to an
// Outcome.
const MaxMessageLen = 64 * 1024

// Outcome is the SCALE Result<(), Vec<u8>> a program answers mutating calls
// with: 0x00 when the call was accepted, 0x01 followed by a length-prefixed
// message when the program rejected it.
type Outcome struct {
	Rejected bool
	Message  []byte
}

// Accepted is the successful Outcome.
func Accepted() Outcome { return Outcome{} }

// Rejection builds a rejected Outcome carrying msg.
func Rejection(msg string) Outcome { return Outcome{Rejected: true, Message: []byte(msg)} }

func (o Outcome) Encode(e scale.Encoder) error {
	if !o.Rejected {
		return e.PushByte(0)
	}
	if err := e.PushByte(1); err != nil {
		return err
	}
	if err := e.EncodeUintCompact(*new(big.Int).SetUint64(uint64(len(o.Message)))); err != nil {
		return err
	}
	return e.Write(o.Message)
}

func (o *Outcome) Decode(d scale.Decoder) error {
	tag, err := d.ReadOneByte()
	if err != nil {
		return err
	}
	switch tag {
	case 0:
		*o = Outcome{}
		return nil
	case 1:
		n, err := d.DecodeUintCompact()
		if err != nil {
			return err
		}
		if !n.IsUint64() || n.Uint64() > MaxMessageLen {
			return fmt.Errorf("%w: message length %s", ErrMalformed, n)
		}
		msg := make([]byte, n.Uint64())
		if len(msg) > 0 {
			if err := d.Read(msg); err != nil {
				return err
			}
		}
		*o = Outcome{Rejected: true, Message: msg}
		return nil
	}
	return fmt.Errorf("%w: outcome tag %#x", ErrMalformed, tag)
}

// DecodeOutcome interprets the output of a mutating call. An empty buffer is
// an executor that answers nothing, which counts as accepted.
func DecodeOutcome(buf []byte) (Outcome, error) {
	if len(buf) == 0 {
		return Accepted(), nil
	}
	return DecodeResult[Outcome](buf)
}
