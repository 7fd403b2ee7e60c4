package diag

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopholelabs/polyglot/pkg/polyglot"
)

func TestDiagnoseScalars(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w *polyglot.Writer)
		expected string
	}{
		{"none", func(w *polyglot.Writer) { w.WriteNone() }, "none"},
		{"bool", func(w *polyglot.Writer) { w.WriteBool(true) }, "true"},
		{"u8", func(w *polyglot.Writer) { w.WriteU8(7) }, "u8(7)"},
		{"u16", func(w *polyglot.Writer) { w.WriteU16(1024) }, "u16(1024)"},
		{"u32", func(w *polyglot.Writer) { w.WriteU32(math.MaxUint32) }, "u32(4294967295)"},
		{"u64", func(w *polyglot.Writer) { w.WriteU64(math.MaxUint64) }, "u64(18446744073709551615)"},
		{"i32", func(w *polyglot.Writer) { w.WriteI32(-42) }, "i32(-42)"},
		{"i64", func(w *polyglot.Writer) { w.WriteI64(math.MinInt64) }, "i64(-9223372036854775808)"},
		{"f32", func(w *polyglot.Writer) { w.WriteF32(1.5) }, "f32(1.5)"},
		{"f64", func(w *polyglot.Writer) { w.WriteF64(-0.25) }, "f64(-0.25)"},
		{"string", func(w *polyglot.Writer) { w.WriteString("say \"hi\"") }, `"say \"hi\""`},
		{"bytes", func(w *polyglot.Writer) { w.WriteBytes([]byte{0x00, 0xff}) }, "h'00ff'"},
		{"error", func(w *polyglot.Writer) { w.WriteError(errors.New("boom")) }, `error("boom")`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := polyglot.NewWriter(nil)
			tt.write(w)
			out, err := Diagnose(w.Bytes())
			require.NoError(t, err)
			assert.Equal(t, tt.expected+"\n", out)
		})
	}
}

func TestDiagnoseComposites(t *testing.T) {
	w := polyglot.NewWriter(nil)
	w.WriteArray(3, polyglot.KindString).WriteString("a").WriteNone().WriteString("b")
	w.WriteMap(2, polyglot.KindString, polyglot.KindU32).
		WriteString("x").WriteU32(1).
		WriteString("y").WriteU32(2)
	w.WriteArray(2, polyglot.KindAny).WriteBool(false).WriteArray(1, polyglot.KindI32).WriteI32(-1)
	w.WriteArray(0, polyglot.KindU8)

	out, err := Diagnose(w.Bytes())
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	assert.Equal(t, []string{
		`array<string>["a", none, "b"]`,
		`map<string, u32>{"x": u32(1), "y": u32(2)}`,
		`array<any>[false, array<i32>[i32(-1)]]`,
		`array<u8>[]`,
	}, lines)
}

func TestDiagnoseErrors(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		_, err := Diagnose(nil)
		assert.Error(t, err)
	})

	t.Run("element kind mismatch", func(t *testing.T) {
		data := polyglot.NewWriter(nil).WriteArray(1, polyglot.KindString).WriteU32(1).Bytes()
		_, err := Diagnose(data)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "expected string element, found u32")
	})

	t.Run("unknown tag", func(t *testing.T) {
		_, err := Diagnose([]byte{0x0a, 0x01, 0x42})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "diagnose value at byte 2")
	})

	t.Run("truncated", func(t *testing.T) {
		data := polyglot.NewWriter(nil).WriteString("hello").Bytes()
		_, err := Diagnose(data[:len(data)-1])
		assert.ErrorIs(t, err, polyglot.ErrInvalidString)
		assert.ErrorIs(t, err, polyglot.ErrTruncated)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := Diagnose([]byte{0x02, 0x05})
		assert.ErrorIs(t, err, polyglot.ErrTruncated)
	})

	t.Run("too deep", func(t *testing.T) {
		w := polyglot.NewWriter(nil)
		for i := 0; i <= MaxDepth+1; i++ {
			w.WriteArray(1, polyglot.KindArray)
		}
		_, err := Diagnose(w.Bytes())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nesting deeper than")
	})
}
