// Package codec translates between typed call arguments and the binary call
// payloads spoken by an executor, and between executor output buffers and
// typed values. Encoding is SCALE: fixed-width little-endian integers, raw
// fixed-size arrays and compact-length-prefixed sequences.
//
// Nothing in this package has side effects.
package codec

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/centrifuge/go-substrate-rpc-client/v4/scale"
)

// Payload is a selector followed by the encoded call arguments. It is
// immutable once built.
type Payload struct {
	data []byte
}

// Bytes returns a copy of the payload.
func (p Payload) Bytes() []byte { return append([]byte(nil), p.data...) }

// Len returns the payload size in bytes.
func (p Payload) Len() int { return len(p.data) }

// Selector returns the leading 4-byte tag. A payload built by EncodeCall
// always has one.
func (p Payload) Selector() Selector {
	var s Selector
	copy(s[:], p.data)
	return s
}

// Args returns a copy of the encoded arguments that follow the selector.
func (p Payload) Args() []byte {
	if len(p.data) < len(Selector{}) {
		return nil
	}
	return append([]byte(nil), p.data[len(Selector{}):]...)
}

// PayloadFromBytes wraps raw call data received from the wire.
func PayloadFromBytes(b []byte) (Payload, error) {
	if len(b) < len(Selector{}) {
		return Payload{}, &DecodeError{Type: "payload", Err: ErrTruncated}
	}
	return Payload{data: append([]byte(nil), b...)}, nil
}

// EncodeCall concatenates sel with the canonical encoding of each argument in
// the order given. The argument order is part of the protocol.
func EncodeCall(sel Selector, args ...any) (Payload, error) {
	var buf bytes.Buffer
	buf.Write(sel[:])
	enc := scale.NewEncoder(&buf)
	for i, arg := range args {
		if err := enc.Encode(arg); err != nil {
			return Payload{}, fmt.Errorf("encode argument %d (%T) for selector %s: %w", i, arg, sel, err)
		}
	}
	return Payload{data: buf.Bytes()}, nil
}

// Encode returns the canonical encoding of v.
func Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := scale.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeTypedKey encodes an attribute key canonically, without any selector.
// The resulting bytes are the lookup key of the outer protocol.
func EncodeTypedKey(key any) ([]byte, error) {
	b, err := Encode(key)
	if err != nil {
		return nil, fmt.Errorf("encode key %T: %w", key, err)
	}
	return b, nil
}

// DecodeResult decodes buf into a V. The buffer must hold exactly one value:
// malformed or truncated input and unconsumed trailing bytes all fail with a
// *DecodeError.
func DecodeResult[V any](buf []byte) (V, error) {
	var v V
	if err := DecodeInto(buf, &v); err != nil {
		var zero V
		return zero, err
	}
	return v, nil
}

// DecodeInto is the non-generic form of DecodeResult. target must be a
// non-nil pointer.
func DecodeInto(buf []byte, target any) (err error) {
	name := typeName(target)
	r := bytes.NewReader(buf)
	defer func() {
		if p := recover(); p != nil {
			err = &DecodeError{Type: name, Err: fmt.Errorf("%w: %v", ErrMalformed, p)}
		}
	}()
	if err := scale.NewDecoder(r).Decode(target); err != nil {
		return &DecodeError{Type: name, Err: classify(err, r.Len() == 0)}
	}
	if r.Len() != 0 {
		return &DecodeError{Type: name, Err: fmt.Errorf("%w: %d unconsumed", ErrTrailingBytes, r.Len())}
	}
	return nil
}

func typeName(target any) string {
	t := reflect.TypeOf(target)
	if t == nil {
		return "<nil>"
	}
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}
