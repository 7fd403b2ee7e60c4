package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode"

	"github.com/spf13/pflag"

	"github.com/loopholelabs/polyglot/internal/diag"
)

func runDiag(e env, args []string) error {
	flags := pflag.NewFlagSet("diag", pflag.ContinueOnError)
	flags.SetOutput(e.stderr)
	common := addCommonFlags(flags)
	hexInput := flags.BoolP("hex", "x", false, "treat input as hex-encoded polyglot data")
	if err := flags.Parse(args); err != nil {
		return err
	}

	cfg, err := common.resolve()
	if err != nil {
		return err
	}
	if flags.Changed("hex") {
		cfg.Hex = *hexInput
	}
	logger := newLogger(e.stderr, cfg.LogLevel)

	if flags.NArg() > 1 {
		return fmt.Errorf("diag takes at most one file argument, got %d", flags.NArg())
	}
	data, err := readInput(e.stdin, flags.Arg(0), cfg.Hex)
	if err != nil {
		return err
	}
	logger.Debug().Int("bytes", len(data)).Bool("hex", cfg.Hex).Msg("diagnosing input")

	return diag.Write(e.stdout, data)
}

// readInput reads the file at path, or stdin when path is empty. With
// hexMode the input is hex with optional whitespace between digit pairs.
func readInput(stdin io.Reader, path string, hexMode bool) ([]byte, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
	} else {
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	if hexMode {
		return decodeHexInput(data)
	}
	return data, nil
}

func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}
