package fixture

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"

	jsoniter "github.com/json-iterator/go"

	"github.com/loopholelabs/polyglot/pkg/polyglot"
)

// ErrMismatch is returned by Check when the codec disagrees with a fixture.
var ErrMismatch = errors.New("fixture mismatch")

// Array fixtures are array<string>; map fixtures are map<string, u32>.
const (
	arrayElementKind = polyglot.KindString
	mapKeyKind       = polyglot.KindString
	mapValueKind     = polyglot.KindU32
)

type pair struct {
	key   string
	value uint32
}

// value is the native form of a fixture's decodedValue. Only the fields
// relevant to the fixture's kind are set.
type value struct {
	null  bool
	b     bool
	u     uint64
	i     int64
	f     float64
	s     string
	raw   []byte
	list  []string
	pairs []pair
}

// Check verifies that encoding the fixture's decoded value produces its
// encoded bytes and that decoding the encoded bytes yields its decoded
// value.
func Check(f Fixture) error {
	want, err := parse(f.Kind, f.DecodedValue)
	if err != nil {
		return fmt.Errorf("fixture %q: parse decodedValue: %w", f.Name, err)
	}

	if f.Kind == polyglot.KindNone {
		return checkNone(f, want)
	}

	encoded := encode(f.Kind, want)
	if !bytes.Equal(encoded, f.EncodedValue) {
		return fmt.Errorf("fixture %q: encode: got %x, want %x: %w", f.Name, encoded, f.EncodedValue, ErrMismatch)
	}

	got, err := decode(f.Kind, f.EncodedValue)
	if err != nil {
		return fmt.Errorf("fixture %q: decode: %w", f.Name, err)
	}
	if !valuesMatch(f.Kind, got, want) {
		return fmt.Errorf("fixture %q: decode: got %+v, want %+v: %w", f.Name, got, want, ErrMismatch)
	}
	return nil
}

// checkNone handles None fixtures: a null decodedValue must encode to the
// None marker, anything else must not probe as None.
func checkNone(f Fixture, want value) error {
	isNone := polyglot.NewReader(f.EncodedValue).ReadNone()
	if want.null != isNone {
		return fmt.Errorf("fixture %q: probe none: got %t, want %t: %w", f.Name, isNone, want.null, ErrMismatch)
	}
	if want.null {
		encoded := polyglot.NewWriter(nil).WriteNone().Bytes()
		if !bytes.Equal(encoded, f.EncodedValue) {
			return fmt.Errorf("fixture %q: encode: got %x, want %x: %w", f.Name, encoded, f.EncodedValue, ErrMismatch)
		}
	}
	return nil
}

func parse(kind polyglot.Kind, raw []byte) (value, error) {
	var v value
	iter := jsoniter.ParseBytes(json, raw)

	switch kind {
	case polyglot.KindNone:
		v.null = iter.ReadNil()
	case polyglot.KindBool:
		v.b = iter.ReadBool()
	case polyglot.KindU8, polyglot.KindU16, polyglot.KindU32, polyglot.KindU64:
		v.u = iter.ReadUint64()
	case polyglot.KindI32, polyglot.KindI64:
		v.i = iter.ReadInt64()
	case polyglot.KindF32:
		v.f = float64(float32(iter.ReadFloat64()))
	case polyglot.KindF64:
		v.f = iter.ReadFloat64()
	case polyglot.KindString, polyglot.KindError:
		v.s = iter.ReadString()
	case polyglot.KindBytes:
		decoded, err := base64.StdEncoding.DecodeString(iter.ReadString())
		if err != nil {
			return v, err
		}
		v.raw = decoded
	case polyglot.KindArray:
		v.list = []string{}
		iter.ReadArrayCB(func(it *jsoniter.Iterator) bool {
			v.list = append(v.list, it.ReadString())
			return true
		})
	case polyglot.KindMap:
		v.pairs = []pair{}
		iter.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
			n := it.ReadUint64()
			if n > math.MaxUint32 {
				it.ReportError("read map value", fmt.Sprintf("%d overflows u32", n))
				return false
			}
			v.pairs = append(v.pairs, pair{key: key, value: uint32(n)})
			return true
		})
	default:
		return v, fmt.Errorf("no fixture support for kind %s", kind)
	}

	// the iterator reports io.EOF after a value that ends the input
	if iter.Error != nil && !errors.Is(iter.Error, io.EOF) {
		return v, iter.Error
	}

	switch kind {
	case polyglot.KindU8, polyglot.KindU16, polyglot.KindU32:
		if v.u > maxUnsigned(kind) {
			return v, fmt.Errorf("%d overflows %s", v.u, kind)
		}
	case polyglot.KindI32:
		if v.i < math.MinInt32 || v.i > math.MaxInt32 {
			return v, fmt.Errorf("%d overflows %s", v.i, kind)
		}
	}
	return v, nil
}

func maxUnsigned(kind polyglot.Kind) uint64 {
	switch kind {
	case polyglot.KindU8:
		return math.MaxUint8
	case polyglot.KindU16:
		return math.MaxUint16
	case polyglot.KindU32:
		return math.MaxUint32
	default:
		return math.MaxUint64
	}
}

func encode(kind polyglot.Kind, v value) []byte {
	w := polyglot.NewWriter(make([]byte, 0, 512))
	switch kind {
	case polyglot.KindBool:
		w.WriteBool(v.b)
	case polyglot.KindU8:
		w.WriteU8(uint8(v.u))
	case polyglot.KindU16:
		w.WriteU16(uint16(v.u))
	case polyglot.KindU32:
		w.WriteU32(uint32(v.u))
	case polyglot.KindU64:
		w.WriteU64(v.u)
	case polyglot.KindI32:
		w.WriteI32(int32(v.i))
	case polyglot.KindI64:
		w.WriteI64(v.i)
	case polyglot.KindF32:
		w.WriteF32(float32(v.f))
	case polyglot.KindF64:
		w.WriteF64(v.f)
	case polyglot.KindString:
		w.WriteString(v.s)
	case polyglot.KindError:
		w.WriteError(errors.New(v.s))
	case polyglot.KindBytes:
		w.WriteBytes(v.raw)
	case polyglot.KindArray:
		w.WriteArray(len(v.list), arrayElementKind)
		for _, s := range v.list {
			w.WriteString(s)
		}
	case polyglot.KindMap:
		w.WriteMap(len(v.pairs), mapKeyKind, mapValueKind)
		for _, p := range v.pairs {
			w.WriteString(p.key).WriteU32(p.value)
		}
	}
	return w.Bytes()
}

func decode(kind polyglot.Kind, data []byte) (value, error) {
	var v value
	var err error
	r := polyglot.NewReader(data)

	switch kind {
	case polyglot.KindBool:
		v.b, err = r.ReadBool()
	case polyglot.KindU8:
		var n uint8
		n, err = r.ReadU8()
		v.u = uint64(n)
	case polyglot.KindU16:
		var n uint16
		n, err = r.ReadU16()
		v.u = uint64(n)
	case polyglot.KindU32:
		var n uint32
		n, err = r.ReadU32()
		v.u = uint64(n)
	case polyglot.KindU64:
		v.u, err = r.ReadU64()
	case polyglot.KindI32:
		var n int32
		n, err = r.ReadI32()
		v.i = int64(n)
	case polyglot.KindI64:
		v.i, err = r.ReadI64()
	case polyglot.KindF32:
		var f float32
		f, err = r.ReadF32()
		v.f = float64(f)
	case polyglot.KindF64:
		v.f, err = r.ReadF64()
	case polyglot.KindString:
		v.s, err = r.ReadString()
	case polyglot.KindError:
		var e error
		e, err = r.ReadError()
		if err == nil {
			v.s = e.Error()
		}
	case polyglot.KindBytes:
		v.raw, err = r.ReadBytes()
	case polyglot.KindArray:
		v.list, err = decodeList(r)
	case polyglot.KindMap:
		v.pairs, err = decodePairs(r)
	default:
		err = fmt.Errorf("no fixture support for kind %s", kind)
	}
	if err != nil {
		return v, err
	}
	if r.Len() != 0 {
		return v, fmt.Errorf("%d trailing byte(s) after %s", r.Len(), kind)
	}
	return v, nil
}

func decodeList(r *polyglot.Reader) ([]string, error) {
	size, err := r.ReadArray(arrayElementKind)
	if err != nil {
		return nil, err
	}
	// each element takes at least one byte
	list := make([]string, 0, min(size, r.Len()))
	for i := 0; i < size; i++ {
		s, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		list = append(list, s)
	}
	return list, nil
}

func decodePairs(r *polyglot.Reader) ([]pair, error) {
	size, err := r.ReadMap(mapKeyKind, mapValueKind)
	if err != nil {
		return nil, err
	}
	pairs := make([]pair, 0, min(size, r.Len()/2))
	for i := 0; i < size; i++ {
		k, err := r.ReadString()
		if err != nil {
			return nil, fmt.Errorf("key %d: %w", i, err)
		}
		val, err := r.ReadU32()
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		pairs = append(pairs, pair{key: k, value: val})
	}
	return pairs, nil
}

func valuesMatch(kind polyglot.Kind, got, want value) bool {
	switch kind {
	case polyglot.KindBool:
		return got.b == want.b
	case polyglot.KindU8, polyglot.KindU16, polyglot.KindU32, polyglot.KindU64:
		return got.u == want.u
	case polyglot.KindI32, polyglot.KindI64:
		return got.i == want.i
	case polyglot.KindF32, polyglot.KindF64:
		return got.f == want.f
	case polyglot.KindString, polyglot.KindError:
		return got.s == want.s
	case polyglot.KindBytes:
		return bytes.Equal(got.raw, want.raw)
	case polyglot.KindArray:
		if len(got.list) != len(want.list) {
			return false
		}
		for i := range got.list {
			if got.list[i] != want.list[i] {
				return false
			}
		}
		return true
	case polyglot.KindMap:
		if len(got.pairs) != len(want.pairs) {
			return false
		}
		for i := range got.pairs {
			if got.pairs[i] != want.pairs[i] {
				return false
			}
		}
		return true
	}
	return false
}
