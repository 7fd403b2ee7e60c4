package polyglot

import (
	"encoding/binary"
	"math"
)

// Writer encodes Go values into the polyglot wire format. It appends to an
// owned byte slice and never fails: every value of a supported Go type is
// encodable. Each method returns the Writer so calls can be chained:
//
//	w := polyglot.NewWriter(nil)
//	w.WriteArray(2, polyglot.KindString).WriteString("a").WriteString("b")
//
// A Writer is not safe for concurrent use.
type Writer struct {
	buf []byte
}

// NewWriter creates a Writer that appends to buf[:0], reusing its capacity.
func NewWriter(buf []byte) *Writer {
	return &Writer{buf: buf[:0]}
}

// Bytes returns the encoded bytes. The slice aliases the Writer's buffer
// until the next write or Reset.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.buf)
}

// Reset discards the written bytes but keeps the allocated capacity.
func (w *Writer) Reset() {
	w.buf = w.buf[:0]
}

func (w *Writer) writeKind(k Kind) {
	w.buf = append(w.buf, k.Tag())
}

// WriteNone writes the absent marker.
func (w *Writer) WriteNone() *Writer {
	w.writeKind(KindNone)
	return w
}

// WriteArray writes an array header. The caller must follow it with exactly
// size elements, each written with its own typed call.
func (w *Writer) WriteArray(size int, elementKind Kind) *Writer {
	w.writeKind(KindArray)
	w.writeKind(elementKind)
	return w.WriteU32(uint32(size))
}

// WriteMap writes a map header. The caller must follow it with exactly size
// key/value pairs, key first.
func (w *Writer) WriteMap(size int, keyKind, valueKind Kind) *Writer {
	w.writeKind(KindMap)
	w.writeKind(keyKind)
	w.writeKind(valueKind)
	return w.WriteU32(uint32(size))
}

// WriteBytes writes a length-prefixed byte slice.
func (w *Writer) WriteBytes(val []byte) *Writer {
	w.writeKind(KindBytes)
	w.WriteU32(uint32(len(val)))
	w.buf = append(w.buf, val...)
	return w
}

// WriteString writes a length-prefixed string. The bytes are written as
// given; the Reader rejects strings that are not valid UTF-8.
func (w *Writer) WriteString(val string) *Writer {
	w.writeKind(KindString)
	w.WriteU32(uint32(len(val)))
	w.buf = append(w.buf, val...)
	return w
}

// WriteError writes err's message as an Error followed by a nested String.
// A nil error is written as None.
func (w *Writer) WriteError(err error) *Writer {
	if err == nil {
		return w.WriteNone()
	}
	w.writeKind(KindError)
	return w.WriteString(err.Error())
}

// WriteBool writes a bool as a single 0x00 or 0x01 byte.
func (w *Writer) WriteBool(val bool) *Writer {
	w.writeKind(KindBool)
	if val {
		w.buf = append(w.buf, 1)
	} else {
		w.buf = append(w.buf, 0)
	}
	return w
}

// WriteU8 writes a single raw byte with no varint framing.
func (w *Writer) WriteU8(val uint8) *Writer {
	w.writeKind(KindU8)
	w.buf = append(w.buf, val)
	return w
}

// WriteU16 writes val as a varint of at most 3 bytes.
func (w *Writer) WriteU16(val uint16) *Writer {
	w.writeKind(KindU16)
	w.buf = appendUvarint(w.buf, val)
	return w
}

// WriteU32 writes val as a varint of at most 5 bytes.
func (w *Writer) WriteU32(val uint32) *Writer {
	w.writeKind(KindU32)
	w.buf = appendUvarint(w.buf, val)
	return w
}

// WriteU64 writes val as a varint of at most 10 bytes.
func (w *Writer) WriteU64(val uint64) *Writer {
	w.writeKind(KindU64)
	w.buf = appendUvarint(w.buf, val)
	return w
}

// WriteI32 writes the zigzag transform of val as a varint.
func (w *Writer) WriteI32(val int32) *Writer {
	w.writeKind(KindI32)
	w.buf = appendUvarint(w.buf, zigzag32(val))
	return w
}

// WriteI64 writes the zigzag transform of val as a varint.
func (w *Writer) WriteI64(val int64) *Writer {
	w.writeKind(KindI64)
	w.buf = appendUvarint(w.buf, zigzag64(val))
	return w
}

// WriteF32 writes val as 4 big-endian IEEE-754 bytes.
func (w *Writer) WriteF32(val float32) *Writer {
	w.writeKind(KindF32)
	w.buf = binary.BigEndian.AppendUint32(w.buf, math.Float32bits(val))
	return w
}

// WriteF64 writes val as 8 big-endian IEEE-754 bytes.
func (w *Writer) WriteF64(val float64) *Writer {
	w.writeKind(KindF64)
	w.buf = binary.BigEndian.AppendUint64(w.buf, math.Float64bits(val))
	return w
}
