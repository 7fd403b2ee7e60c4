package polyglot

import (
	"errors"
	"fmt"
)

// One sentinel per decode operation. An error returned by a Reader matches
// the sentinel of the failing operation with errors.Is, and also that of any
// nested length read that failed.
var (
	ErrInvalidArray  = errors.New("polyglot: invalid array")
	ErrInvalidMap    = errors.New("polyglot: invalid map")
	ErrInvalidBytes  = errors.New("polyglot: invalid bytes")
	ErrInvalidString = errors.New("polyglot: invalid string")
	ErrInvalidError  = errors.New("polyglot: invalid error")
	ErrInvalidBool   = errors.New("polyglot: invalid bool")
	ErrInvalidU8     = errors.New("polyglot: invalid u8")
	ErrInvalidU16    = errors.New("polyglot: invalid u16")
	ErrInvalidU32    = errors.New("polyglot: invalid u32")
	ErrInvalidU64    = errors.New("polyglot: invalid u64")
	ErrInvalidI32    = errors.New("polyglot: invalid i32")
	ErrInvalidI64    = errors.New("polyglot: invalid i64")
	ErrInvalidF32    = errors.New("polyglot: invalid f32")
	ErrInvalidF64    = errors.New("polyglot: invalid f64")
)

// Causes, matched alongside the operation sentinel.
var (
	ErrKindMismatch   = errors.New("polyglot: kind mismatch")
	ErrTruncated      = errors.New("polyglot: truncated input")
	ErrVarintOverflow = errors.New("polyglot: varint overflow")
	ErrInvalidUTF8    = errors.New("polyglot: invalid utf8")
	ErrMalformed      = errors.New("polyglot: malformed payload")
)

var opErrors = map[Kind]error{
	KindArray:  ErrInvalidArray,
	KindMap:    ErrInvalidMap,
	KindBytes:  ErrInvalidBytes,
	KindString: ErrInvalidString,
	KindError:  ErrInvalidError,
	KindBool:   ErrInvalidBool,
	KindU8:     ErrInvalidU8,
	KindU16:    ErrInvalidU16,
	KindU32:    ErrInvalidU32,
	KindU64:    ErrInvalidU64,
	KindI32:    ErrInvalidI32,
	KindI64:    ErrInvalidI64,
	KindF32:    ErrInvalidF32,
	KindF64:    ErrInvalidF64,
}

// DecodingError describes a failed Reader operation.
type DecodingError struct {
	Op     Kind  // the operation that failed
	Offset int   // position at which the operation started
	Reason string
	Err    error // operation sentinel, e.g. ErrInvalidU32
	Cause  error // e.g. ErrKindMismatch, or the error of a nested read
}

func newDecodingError(op Kind, offset int, cause error, format string, args ...any) *DecodingError {
	return &DecodingError{
		Op:     op,
		Offset: offset,
		Reason: fmt.Sprintf(format, args...),
		Err:    opErrors[op],
		Cause:  cause,
	}
}

func (e *DecodingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("polyglot: decode %s at offset %d: %s: %v", e.Op, e.Offset, e.Reason, e.Cause)
	}
	return fmt.Sprintf("polyglot: decode %s at offset %d: %s", e.Op, e.Offset, e.Reason)
}

func (e *DecodingError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	if e.Cause != nil {
		errs = append(errs, e.Cause)
	}
	return errs
}
