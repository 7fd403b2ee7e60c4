package polyglot

import (
	"encoding/binary"
	"errors"
	"math"
	"unicode/utf8"
)

// Reader decodes polyglot-encoded data from an in-memory buffer.
//
// Every typed read first checks the tag byte(s) against the expected kind.
// On a mismatch the position is restored to where the call began and the
// call fails, so the caller can retry with another kind. Once the tag
// matched, a malformed or truncated payload leaves the position somewhere
// inside the value and the buffer must be treated as unusable.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	buf []byte
	pos int
}

// NewReader creates a Reader positioned at the start of buf. The Reader
// does not copy buf; the caller must not modify it while decoding.
func NewReader(buf []byte) *Reader {
	return &Reader{buf: buf}
}

// Reset points the Reader at a new buffer.
func (r *Reader) Reset(buf []byte) {
	r.buf = buf
	r.pos = 0
}

// Position returns the offset of the next unread byte.
func (r *Reader) Position() int {
	return r.pos
}

// Len returns the number of unread bytes.
func (r *Reader) Len() int {
	return len(r.buf) - r.pos
}

// PeekKind returns the kind of the next value without consuming it, or
// KindUnknown at the end of the buffer.
func (r *Reader) PeekKind() Kind {
	if r.pos >= len(r.buf) {
		return KindUnknown
	}
	return KindOf(r.buf[r.pos])
}

// ReadNone consumes a None marker if one is next. It never fails and leaves
// the position untouched when the next value is anything else.
func (r *Reader) ReadNone() bool {
	if r.PeekKind() == KindNone {
		r.pos++
		return true
	}
	return false
}

// expect checks that the next len(tags) bytes equal tags, consuming them on
// success. On failure the position is unchanged.
func (r *Reader) expect(op Kind, tags ...Kind) error {
	if r.Len() < len(tags) {
		return newDecodingError(op, r.pos, ErrTruncated, "need %d tag byte(s), have %d", len(tags), r.Len())
	}
	for i, want := range tags {
		if got := KindOf(r.buf[r.pos+i]); got != want {
			return newDecodingError(op, r.pos, ErrKindMismatch, "tag %d: expected %s, found %s", i, want, got)
		}
	}
	r.pos += len(tags)
	return nil
}

// take consumes n raw payload bytes.
func (r *Reader) take(op Kind, start, n int) ([]byte, error) {
	if n < 0 || r.Len() < n {
		return nil, newDecodingError(op, start, ErrTruncated, "need %d byte(s), have %d", n, r.Len())
	}
	p := r.buf[r.pos : r.pos+n]
	r.pos += n
	return p, nil
}

func readUvarint[T unsigned](r *Reader, op Kind, start int) (T, error) {
	v, n, err := uvarint[T](r.buf[r.pos:])
	r.pos += n
	if err != nil {
		return 0, newDecodingError(op, start, err, "bad varint payload")
	}
	return v, nil
}

// readLength decodes the nested U32 length of a variable-size value.
func (r *Reader) readLength(op Kind, start int) (int, error) {
	size, err := r.ReadU32()
	if err != nil {
		return 0, newDecodingError(op, start, err, "bad length")
	}
	return int(size), nil
}

// ReadArray decodes an array header whose element kind must equal
// elementKind and returns the element count. The caller decodes that many
// elements itself. On a header mismatch nothing is consumed.
func (r *Reader) ReadArray(elementKind Kind) (int, error) {
	start := r.pos
	if !elementKind.Valid() {
		return 0, newDecodingError(KindArray, start, ErrKindMismatch, "expected element kind is %s", elementKind)
	}
	if err := r.expect(KindArray, KindArray, elementKind); err != nil {
		return 0, err
	}
	return r.readLength(KindArray, start)
}

// ReadMap decodes a map header whose key and value kinds must equal keyKind
// and valueKind and returns the number of pairs.
func (r *Reader) ReadMap(keyKind, valueKind Kind) (int, error) {
	start := r.pos
	if !keyKind.Valid() || !valueKind.Valid() {
		return 0, newDecodingError(KindMap, start, ErrKindMismatch, "expected kinds are %s, %s", keyKind, valueKind)
	}
	if err := r.expect(KindMap, KindMap, keyKind, valueKind); err != nil {
		return 0, err
	}
	return r.readLength(KindMap, start)
}

// ReadBytes decodes a length-prefixed byte slice. The result is a copy.
func (r *Reader) ReadBytes() ([]byte, error) {
	start := r.pos
	if err := r.expect(KindBytes, KindBytes); err != nil {
		return nil, err
	}
	size, err := r.readLength(KindBytes, start)
	if err != nil {
		return nil, err
	}
	p, err := r.take(KindBytes, start, size)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(p))
	copy(out, p)
	return out, nil
}

// stringPayload decodes the length and UTF-8 bytes following a String tag.
func (r *Reader) stringPayload(op Kind, start int) (string, error) {
	size, err := r.readLength(op, start)
	if err != nil {
		return "", err
	}
	p, err := r.take(op, start, size)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(p) {
		return "", newDecodingError(op, start, ErrInvalidUTF8, "%d byte string", size)
	}
	return string(p), nil
}

// ReadString decodes a length-prefixed string and rejects invalid UTF-8.
func (r *Reader) ReadString() (string, error) {
	start := r.pos
	if err := r.expect(KindString, KindString); err != nil {
		return "", err
	}
	return r.stringPayload(KindString, start)
}

// ReadError decodes an Error value. The Error and String tags are checked
// together; on a mismatch of either, nothing is consumed.
func (r *Reader) ReadError() (error, error) {
	start := r.pos
	if err := r.expect(KindError, KindError, KindString); err != nil {
		return nil, err
	}
	msg, err := r.stringPayload(KindError, start)
	if err != nil {
		return nil, err
	}
	return errors.New(msg), nil
}

// ReadBool decodes a bool. Payload bytes other than 0x00 and 0x01 are
// malformed.
func (r *Reader) ReadBool() (bool, error) {
	start := r.pos
	if err := r.expect(KindBool, KindBool); err != nil {
		return false, err
	}
	p, err := r.take(KindBool, start, 1)
	if err != nil {
		return false, err
	}
	switch p[0] {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, newDecodingError(KindBool, start, ErrMalformed, "bool byte 0x%02x", p[0])
	}
}

// ReadU8 decodes a single raw byte.
func (r *Reader) ReadU8() (uint8, error) {
	start := r.pos
	if err := r.expect(KindU8, KindU8); err != nil {
		return 0, err
	}
	p, err := r.take(KindU8, start, 1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

// ReadU16 decodes a varint of at most 3 bytes.
func (r *Reader) ReadU16() (uint16, error) {
	start := r.pos
	if err := r.expect(KindU16, KindU16); err != nil {
		return 0, err
	}
	return readUvarint[uint16](r, KindU16, start)
}

// ReadU32 decodes a varint of at most 5 bytes.
func (r *Reader) ReadU32() (uint32, error) {
	start := r.pos
	if err := r.expect(KindU32, KindU32); err != nil {
		return 0, err
	}
	return readUvarint[uint32](r, KindU32, start)
}

// ReadU64 decodes a varint of at most 10 bytes.
func (r *Reader) ReadU64() (uint64, error) {
	start := r.pos
	if err := r.expect(KindU64, KindU64); err != nil {
		return 0, err
	}
	return readUvarint[uint64](r, KindU64, start)
}

// ReadI32 decodes a zigzag varint into an int32.
func (r *Reader) ReadI32() (int32, error) {
	start := r.pos
	if err := r.expect(KindI32, KindI32); err != nil {
		return 0, err
	}
	u, err := readUvarint[uint32](r, KindI32, start)
	if err != nil {
		return 0, err
	}
	return unzigzag32(u), nil
}

// ReadI64 decodes a zigzag varint into an int64.
func (r *Reader) ReadI64() (int64, error) {
	start := r.pos
	if err := r.expect(KindI64, KindI64); err != nil {
		return 0, err
	}
	u, err := readUvarint[uint64](r, KindI64, start)
	if err != nil {
		return 0, err
	}
	return unzigzag64(u), nil
}

// ReadF32 decodes 4 big-endian IEEE-754 bytes.
func (r *Reader) ReadF32() (float32, error) {
	start := r.pos
	if err := r.expect(KindF32, KindF32); err != nil {
		return 0, err
	}
	p, err := r.take(KindF32, start, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.BigEndian.Uint32(p)), nil
}

// ReadF64 decodes 8 big-endian IEEE-754 bytes.
func (r *Reader) ReadF64() (float64, error) {
	start := r.pos
	if err := r.expect(KindF64, KindF64); err != nil {
		return 0, err
	}
	p, err := r.take(KindF64, start, 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p)), nil
}
