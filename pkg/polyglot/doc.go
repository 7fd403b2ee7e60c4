// Package polyglot implements a self-describing binary codec.
//
// Every value on the wire starts with a one-byte Kind tag, so a stream can be
// decoded without a schema:
//
//	None          [0x00]
//	Bool          [0x07][0x00 | 0x01]
//	U8            [0x08][byte]
//	U16/U32/U64   [tag][varint]
//	I32/I64       [tag][varint(zigzag(v))]
//	F32/F64       [tag][4 | 8 bytes big-endian]
//	Bytes         [0x04][U32 length][bytes]
//	String        [0x05][U32 length][UTF-8]
//	Error         [0x06][0x05][U32 length][UTF-8]
//	Array         [0x01][element kind][U32 length][elements]
//	Map           [0x02][key kind][value kind][U32 length][key, value ...]
//
// Lengths are full U32 values including their own tag. Elements of arrays
// and maps carry their own tags as well; the header kinds are checked on
// read but never used to omit inner tags.
//
// Values are written with a Writer and read back in the same order with a
// Reader:
//
//	w := polyglot.NewWriter(nil)
//	w.WriteMap(1, polyglot.KindString, polyglot.KindU32).WriteString("n").WriteU32(1)
//
//	r := polyglot.NewReader(w.Bytes())
//	size, err := r.ReadMap(polyglot.KindString, polyglot.KindU32)
//
// Reader.ReadNone probes for an absent value without failing. A typed read
// that finds a different tag fails and leaves the Reader where it was, so the
// caller may try another kind.
package polyglot
