package codec

import (
	"errors"
	"fmt"
	"io"
)

var (
	// ErrDecode matches every *DecodeError.
	ErrDecode = errors.New("codec: decode failed")

	ErrTruncated     = errors.New("truncated input")
	ErrTrailingBytes = errors.New("trailing bytes")
	ErrMalformed     = errors.New("malformed input")
)

// DecodeError reports a buffer that does not match the expected shape. It
// points at a protocol mismatch, never at an executor failure.
type DecodeError struct {
	Type string
	Err  error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("codec: decode %s: %v", e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is lets errors.Is(err, ErrDecode) match any DecodeError.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// classify folds decoder errors into the package sentinels. exhausted tells
// whether the decoder consumed the whole input before failing.
func classify(err error, exhausted bool) error {
	switch {
	case errors.Is(err, ErrTruncated), errors.Is(err, ErrMalformed), errors.Is(err, ErrTrailingBytes):
		return err
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		return ErrTruncated
	case exhausted:
		return fmt.Errorf("%w: %v", ErrTruncated, err)
	}
	return fmt.Errorf("%w: %v", ErrMalformed, err)
}
