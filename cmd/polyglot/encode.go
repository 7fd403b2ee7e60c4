package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/loopholelabs/polyglot/pkg/polyglot"
)

func runEncode(e env, args []string) error {
	flags := pflag.NewFlagSet("encode", pflag.ContinueOnError)
	flags.SetOutput(e.stderr)
	common := addCommonFlags(flags)
	kindName := flags.StringP("kind", "k", "", "kind of the value (none, bool, u8 ... f64, string, bytes, error)")
	raw := flags.Bool("raw", false, "write raw bytes instead of hex")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := common.resolve()
	if err != nil {
		return err
	}
	logger := newLogger(e.stderr, cfg.LogLevel)

	if *kindName == "" {
		return fmt.Errorf("encode requires --kind")
	}
	kind, err := polyglot.ParseKind(*kindName)
	if err != nil {
		return err
	}
	if flags.NArg() > 1 {
		return fmt.Errorf("encode takes at most one value, got %d", flags.NArg())
	}

	data, err := encodeValue(kind, flags.Arg(0))
	if err != nil {
		return err
	}
	logger.Debug().Stringer("kind", kind).Int("bytes", len(data)).Msg("encoded value")

	if *raw {
		_, err = e.stdout.Write(data)
		return err
	}
	_, err = fmt.Fprintln(e.stdout, hex.EncodeToString(data))
	return err
}

// encodeValue parses text as a value of kind and returns its encoding.
// Bytes values are given in hex.
func encodeValue(kind polyglot.Kind, text string) ([]byte, error) {
	w := polyglot.NewWriter(nil)

	switch kind {
	case polyglot.KindNone:
		if text != "" {
			return nil, fmt.Errorf("none takes no value, got %q", text)
		}
		w.WriteNone()
	case polyglot.KindBool:
		v, err := strconv.ParseBool(text)
		if err != nil {
			return nil, fmt.Errorf("parse bool: %w", err)
		}
		w.WriteBool(v)
	case polyglot.KindU8, polyglot.KindU16, polyglot.KindU32, polyglot.KindU64:
		v, err := strconv.ParseUint(text, 0, unsignedBits(kind))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", kind, err)
		}
		switch kind {
		case polyglot.KindU8:
			w.WriteU8(uint8(v))
		case polyglot.KindU16:
			w.WriteU16(uint16(v))
		case polyglot.KindU32:
			w.WriteU32(uint32(v))
		default:
			w.WriteU64(v)
		}
	case polyglot.KindI32:
		v, err := strconv.ParseInt(text, 0, 32)
		if err != nil {
			return nil, fmt.Errorf("parse i32: %w", err)
		}
		w.WriteI32(int32(v))
	case polyglot.KindI64:
		v, err := strconv.ParseInt(text, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("parse i64: %w", err)
		}
		w.WriteI64(v)
	case polyglot.KindF32:
		v, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, fmt.Errorf("parse f32: %w", err)
		}
		w.WriteF32(float32(v))
	case polyglot.KindF64:
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, fmt.Errorf("parse f64: %w", err)
		}
		w.WriteF64(v)
	case polyglot.KindString:
		w.WriteString(text)
	case polyglot.KindError:
		w.WriteError(errors.New(text))
	case polyglot.KindBytes:
		v, err := hex.DecodeString(text)
		if err != nil {
			return nil, fmt.Errorf("parse bytes: %w", err)
		}
		w.WriteBytes(v)
	default:
		return nil, fmt.Errorf("cannot encode a single %s value", kind)
	}
	return w.Bytes(), nil
}

func unsignedBits(kind polyglot.Kind) int {
	switch kind {
	case polyglot.KindU8:
		return 8
	case polyglot.KindU16:
		return 16
	case polyglot.KindU32:
		return 32
	default:
		return 64
	}
}
