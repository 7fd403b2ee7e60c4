// Command polyglot inspects and produces polyglot-encoded data and checks
// the codec against conformance fixtures.
//
//	polyglot diag [--hex] [file]
//	polyglot encode --kind <kind> [value]
//	polyglot verify [--fixtures path | --url url]
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
)

var errUsage = errors.New("usage")

type env struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(e env, args []string) error
}

var commands = map[string]command{
	"diag":   {summary: "Render a polyglot stream in diagnostic notation", run: runDiag},
	"encode": {summary: "Encode a single scalar value and print it as hex", run: runEncode},
	"verify": {summary: "Check the codec against a conformance fixture set", run: runVerify},
}

func main() {
	e := env{stdin: os.Stdin, stdout: os.Stdout, stderr: os.Stderr}
	if err := run(e, os.Args[1:]); err != nil {
		if !errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "polyglot: %v\n", err)
		}
		os.Exit(1)
	}
}

func run(e env, args []string) error {
	if len(args) == 0 {
		usage(e.stderr)
		return errUsage
	}
	switch args[0] {
	case "help", "-h", "--help":
		usage(e.stdout)
		return nil
	}
	cmd, ok := commands[args[0]]
	if !ok {
		usage(e.stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
	// pflag has already printed the subcommand usage
	if err := cmd.run(e, args[1:]); err != nil && !errors.Is(err, pflag.ErrHelp) {
		return err
	}
	return nil
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "usage: polyglot <command> [flags] [args]")
	fmt.Fprintln(w)
	for _, name := range names {
		fmt.Fprintf(w, "  %-8s %s\n", name, commands[name].summary)
	}
}

// commonFlags are accepted by every subcommand.
type commonFlags struct {
	configPath string
	logLevel   string
}

func addCommonFlags(flags *pflag.FlagSet) *commonFlags {
	var c commonFlags
	flags.StringVar(&c.configPath, "config", "", "path to a TOML config file")
	flags.StringVar(&c.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	return &c
}

// resolve builds the effective config: defaults, then the config file,
// then flags.
func (c *commonFlags) resolve() (Config, error) {
	cfg := DefaultConfig()
	if c.configPath != "" {
		loaded, err := loadConfig(c.configPath)
		if err != nil {
			return Config{}, err
		}
		cfg = loaded
	}
	if c.logLevel != "" {
		level, err := zerolog.ParseLevel(c.logLevel)
		if err != nil {
			return Config{}, fmt.Errorf("parse --log-level: %w", err)
		}
		cfg.LogLevel = level
	}
	return cfg, nil
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, NoColor: true}).
		Level(level).
		With().
		Timestamp().
		Logger()
}
