package polyglot

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWriteNone(t *testing.T) {
	w := NewWriter(make([]byte, 0, 512)).WriteNone()
	assert.Equal(t, []byte{0x00}, w.Bytes())
}

func TestWriteArray(t *testing.T) {
	w := NewWriter(nil).WriteArray(32, KindString)

	assert.Equal(t, []byte{0x01, 0x05, 0x0a, 0x20}, w.Bytes())
}

func TestWriteMap(t *testing.T) {
	w := NewWriter(nil).WriteMap(32, KindString, KindU32)

	assert.Equal(t, []byte{0x02, 0x05, 0x0a, 0x0a, 0x20}, w.Bytes())
}

func TestWriteBytes(t *testing.T) {
	v := []byte("Test String")
	w := NewWriter(nil).WriteBytes(v)

	assert.Equal(t, 1+1+1+len(v), w.Len())
	assert.Equal(t, []byte{0x04, 0x0a, 0x0b}, w.Bytes()[:3])
	assert.Equal(t, v, w.Bytes()[3:])
}

func TestWriteString(t *testing.T) {
	v := "Test String"
	w := NewWriter(nil).WriteString(v)

	assert.Equal(t, []byte{0x05, 0x0a, 0x0b}, w.Bytes()[:3])
	assert.Equal(t, []byte(v), w.Bytes()[3:])
}

func TestWriteError(t *testing.T) {
	v := "Test Error"
	w := NewWriter(nil).WriteError(errors.New(v))

	assert.Equal(t, []byte{0x06, 0x05, 0x0a, 0x0a}, w.Bytes()[:4])
	assert.Equal(t, []byte(v), w.Bytes()[4:])

	assert.Equal(t, []byte{0x00}, NewWriter(nil).WriteError(nil).Bytes())
}

func TestWriteScalars(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w *Writer)
		expected []byte
	}{
		{"bool true", func(w *Writer) { w.WriteBool(true) }, []byte{0x07, 0x01}},
		{"bool false", func(w *Writer) { w.WriteBool(false) }, []byte{0x07, 0x00}},
		{"u8", func(w *Writer) { w.WriteU8(32) }, []byte{0x08, 0x20}},
		{"u8 max", func(w *Writer) { w.WriteU8(0xff) }, []byte{0x08, 0xff}},
		{"u16", func(w *Writer) { w.WriteU16(1024) }, []byte{0x09, 0x80, 0x08}},
		{"u32 zero", func(w *Writer) { w.WriteU32(0) }, []byte{0x0a, 0x00}},
		{"u32", func(w *Writer) { w.WriteU32(4294967290) }, []byte{0x0a, 0xfa, 0xff, 0xff, 0xff, 0x0f}},
		{
			"u64",
			func(w *Writer) { w.WriteU64(18446744073709551610) },
			[]byte{0x0b, 0xfa, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01},
		},
		{"i32 min", func(w *Writer) { w.WriteI32(math.MinInt32) }, []byte{0x0c, 0xff, 0xff, 0xff, 0xff, 0x0f}},
		{"i32 -1", func(w *Writer) { w.WriteI32(-1) }, []byte{0x0c, 0x01}},
		{"i32 1", func(w *Writer) { w.WriteI32(1) }, []byte{0x0c, 0x02}},
		{
			"i64 min",
			func(w *Writer) { w.WriteI64(math.MinInt64) },
			[]byte{0x0d, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0xff, 0x01},
		},
		{"f32", func(w *Writer) { w.WriteF32(-214648.34432) }, []byte{0x0e, 0xc8, 0x51, 0x9e, 0x16}},
		{
			"f64",
			func(w *Writer) { w.WriteF64(-922337203685.2345) },
			[]byte{0x0f, 0xc2, 0x6a, 0xd7, 0xf2, 0x9a, 0xbc, 0xa7, 0x81},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewWriter(nil)
			tt.write(w)
			assert.Equal(t, tt.expected, w.Bytes())
		})
	}
}

func TestWriterChainingAndReset(t *testing.T) {
	w := NewWriter(make([]byte, 0, 64))
	w.WriteArray(2, KindU8).WriteU8(1).WriteU8(2)
	assert.Equal(t, []byte{0x01, 0x08, 0x0a, 0x02, 0x08, 0x01, 0x08, 0x02}, w.Bytes())

	w.Reset()
	assert.Equal(t, 0, w.Len())
	w.WriteNone()
	assert.Equal(t, []byte{0x00}, w.Bytes())
}
