package polyglot

import "fmt"

// Kind identifies a wire type. Each Kind is a single tag byte on the wire.
// The byte values are the only versioning mechanism of the format and
// must never be reassigned.
type Kind uint8

const (
	KindNone   Kind = 0x00
	KindArray  Kind = 0x01 // element kind tag, nested U32 length, elements
	KindMap    Kind = 0x02 // key kind tag, value kind tag, nested U32 length, pairs
	KindAny    Kind = 0x03 // placeholder for heterogeneous composite elements
	KindBytes  Kind = 0x04 // nested U32 length, raw bytes
	KindString Kind = 0x05 // nested U32 length, UTF-8 bytes
	KindError  Kind = 0x06 // followed by a nested String
	KindBool   Kind = 0x07
	KindU8     Kind = 0x08 // one raw byte
	KindU16    Kind = 0x09
	KindU32    Kind = 0x0a
	KindU64    Kind = 0x0b
	KindI32    Kind = 0x0c // zigzag
	KindI64    Kind = 0x0d // zigzag
	KindF32    Kind = 0x0e // 4 bytes big-endian
	KindF64    Kind = 0x0f // 8 bytes big-endian

	// KindUnknown is the result of decoding a byte outside the defined set.
	// It is never valid on the wire.
	KindUnknown Kind = 0xff
)

// Tag returns the wire byte for k.
func (k Kind) Tag() byte {
	return byte(k)
}

// KindOf maps a wire byte to its Kind. Bytes outside the defined set map
// to KindUnknown; callers reject it where it is not acceptable.
func KindOf(b byte) Kind {
	if b > byte(KindF64) {
		return KindUnknown
	}
	return Kind(b)
}

// Valid reports whether k is one of the defined wire kinds.
func (k Kind) Valid() bool {
	return k <= KindF64
}

// Scalar reports whether k is encoded without a composite header.
func (k Kind) Scalar() bool {
	switch k {
	case KindArray, KindMap, KindAny, KindUnknown:
		return false
	default:
		return k.Valid()
	}
}

// String returns the lower-case name of k, used in errors and diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindArray:
		return "array"
	case KindMap:
		return "map"
	case KindAny:
		return "any"
	case KindBytes:
		return "bytes"
	case KindString:
		return "string"
	case KindError:
		return "error"
	case KindBool:
		return "bool"
	case KindU8:
		return "u8"
	case KindU16:
		return "u16"
	case KindU32:
		return "u32"
	case KindU64:
		return "u64"
	case KindI32:
		return "i32"
	case KindI64:
		return "i64"
	case KindF32:
		return "f32"
	case KindF64:
		return "f64"
	default:
		return fmt.Sprintf("unknown(0x%02x)", byte(k))
	}
}

// ParseKind is the inverse of Kind.String for the defined kinds.
func ParseKind(name string) (Kind, error) {
	for k := KindNone; k <= KindF64; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("polyglot: unknown kind %q", name)
}
