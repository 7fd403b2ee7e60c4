// Package diag renders polyglot streams in a human-readable diagnostic
// notation. Unlike a typed decode, it needs no knowledge of the expected
// shape: each value is dispatched on its tag byte.
//
//	u32(42)
//	"text"
//	h'00ff'
//	error("boom")
//	array<string>["a", "b"]
//	map<string, u32>{"a": u32(1)}
//	none
package diag

import (
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/loopholelabs/polyglot/pkg/polyglot"
)

// MaxDepth bounds composite nesting.
const MaxDepth = 64

// Diagnose renders every top-level value in data, one per line.
func Diagnose(data []byte) (string, error) {
	var sb strings.Builder
	if err := Write(&sb, data); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// Write renders every top-level value in data to w, one per line.
func Write(w io.Writer, data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("empty input: expected polyglot data")
	}
	d := &walker{data: data, r: polyglot.NewReader(data)}
	for d.r.Len() > 0 {
		d.sb.Reset()
		start := d.r.Position()
		if err := d.value(polyglot.KindAny, 0); err != nil {
			return fmt.Errorf("diagnose value at byte %d: %w", start, err)
		}
		if _, err := fmt.Fprintln(w, d.sb.String()); err != nil {
			return err
		}
	}
	return nil
}

type walker struct {
	data []byte
	r    *polyglot.Reader
	sb   strings.Builder
}

// header returns the n kind bytes following the composite tag at the
// current position.
func (d *walker) header(n int) ([]polyglot.Kind, error) {
	pos := d.r.Position()
	if pos+n >= len(d.data) {
		return nil, fmt.Errorf("byte %d: %w", pos, polyglot.ErrTruncated)
	}
	kinds := make([]polyglot.Kind, n)
	for i := range kinds {
		kinds[i] = polyglot.KindOf(d.data[pos+1+i])
	}
	return kinds, nil
}

// value renders the next value, which must be None or of kind expect
// (any kind when expect is KindAny).
func (d *walker) value(expect polyglot.Kind, depth int) error {
	if depth > MaxDepth {
		return fmt.Errorf("byte %d: nesting deeper than %d", d.r.Position(), MaxDepth)
	}
	if d.r.ReadNone() {
		d.sb.WriteString("none")
		return nil
	}

	kind := d.r.PeekKind()
	if expect != polyglot.KindAny && kind != expect {
		return fmt.Errorf("byte %d: expected %s element, found %s", d.r.Position(), expect, kind)
	}

	switch kind {
	case polyglot.KindArray:
		kinds, err := d.header(1)
		if err != nil {
			return err
		}
		size, err := d.r.ReadArray(kinds[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(&d.sb, "array<%s>[", kinds[0])
		for i := 0; i < size; i++ {
			if i > 0 {
				d.sb.WriteString(", ")
			}
			if err := d.value(kinds[0], depth+1); err != nil {
				return err
			}
		}
		d.sb.WriteByte(']')
		return nil

	case polyglot.KindMap:
		kinds, err := d.header(2)
		if err != nil {
			return err
		}
		size, err := d.r.ReadMap(kinds[0], kinds[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(&d.sb, "map<%s, %s>{", kinds[0], kinds[1])
		for i := 0; i < size; i++ {
			if i > 0 {
				d.sb.WriteString(", ")
			}
			if err := d.value(kinds[0], depth+1); err != nil {
				return err
			}
			d.sb.WriteString(": ")
			if err := d.value(kinds[1], depth+1); err != nil {
				return err
			}
		}
		d.sb.WriteByte('}')
		return nil

	default:
		return d.scalar(kind)
	}
}

func (d *walker) scalar(kind polyglot.Kind) error {
	switch kind {
	case polyglot.KindBytes:
		v, err := d.r.ReadBytes()
		if err != nil {
			return err
		}
		d.sb.WriteString("h'" + hex.EncodeToString(v) + "'")
	case polyglot.KindString:
		v, err := d.r.ReadString()
		if err != nil {
			return err
		}
		d.sb.WriteString(strconv.Quote(v))
	case polyglot.KindError:
		v, err := d.r.ReadError()
		if err != nil {
			return err
		}
		d.sb.WriteString("error(" + strconv.Quote(v.Error()) + ")")
	case polyglot.KindBool:
		v, err := d.r.ReadBool()
		if err != nil {
			return err
		}
		d.sb.WriteString(strconv.FormatBool(v))
	case polyglot.KindU8:
		v, err := d.r.ReadU8()
		if err != nil {
			return err
		}
		d.unsigned(kind, uint64(v))
	case polyglot.KindU16:
		v, err := d.r.ReadU16()
		if err != nil {
			return err
		}
		d.unsigned(kind, uint64(v))
	case polyglot.KindU32:
		v, err := d.r.ReadU32()
		if err != nil {
			return err
		}
		d.unsigned(kind, uint64(v))
	case polyglot.KindU64:
		v, err := d.r.ReadU64()
		if err != nil {
			return err
		}
		d.unsigned(kind, v)
	case polyglot.KindI32:
		v, err := d.r.ReadI32()
		if err != nil {
			return err
		}
		d.signed(kind, int64(v))
	case polyglot.KindI64:
		v, err := d.r.ReadI64()
		if err != nil {
			return err
		}
		d.signed(kind, v)
	case polyglot.KindF32:
		v, err := d.r.ReadF32()
		if err != nil {
			return err
		}
		d.sb.WriteString("f32(" + strconv.FormatFloat(float64(v), 'g', -1, 32) + ")")
	case polyglot.KindF64:
		v, err := d.r.ReadF64()
		if err != nil {
			return err
		}
		d.sb.WriteString("f64(" + strconv.FormatFloat(v, 'g', -1, 64) + ")")
	default:
		// Any is only a header placeholder and never a value on the wire.
		return fmt.Errorf("byte %d: unexpected kind %s", d.r.Position(), kind)
	}
	return nil
}

func (d *walker) unsigned(kind polyglot.Kind, v uint64) {
	d.sb.WriteString(kind.String() + "(" + strconv.FormatUint(v, 10) + ")")
}

func (d *walker) signed(kind polyglot.Kind, v int64) {
	d.sb.WriteString(kind.String() + "(" + strconv.FormatInt(v, 10) + ")")
}
