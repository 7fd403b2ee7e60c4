package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/loopholelabs/polyglot/internal/fixture"
)

func runVerify(e env, args []string) error {
	flags := pflag.NewFlagSet("verify", pflag.ContinueOnError)
	flags.SetOutput(e.stderr)
	common := addCommonFlags(flags)
	path := flags.StringP("fixtures", "f", "", "path to a fixture JSON file")
	url := flags.String("url", "", "URL of a fixture JSON file")
	timeout := flags.Duration("timeout", 0, "timeout for fetching --url")
	if err := flags.Parse(args); err != nil {
		return err
	}
	if flags.NArg() > 0 {
		return fmt.Errorf("verify takes no positional arguments, got %q", flags.Arg(0))
	}

	cfg, err := common.resolve()
	if err != nil {
		return err
	}
	if flags.Changed("fixtures") {
		cfg.Fixtures = *path
		cfg.FixturesURL = ""
	}
	if flags.Changed("url") {
		cfg.FixturesURL = *url
		cfg.Fixtures = ""
	}
	if flags.Changed("timeout") {
		if *timeout <= 0 {
			return fmt.Errorf("--timeout must be positive, got %s", *timeout)
		}
		cfg.Timeout = *timeout
	}
	logger := newLogger(e.stderr, cfg.LogLevel)

	var set fixture.Set
	switch {
	case cfg.Fixtures != "" && cfg.FixturesURL != "":
		return fmt.Errorf("fixtures and fixtures_url are mutually exclusive")
	case cfg.Fixtures != "":
		set, err = fixture.LoadFile(cfg.Fixtures)
	case cfg.FixturesURL != "":
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		defer cancel()
		set, err = fixture.Fetch(ctx, nil, cfg.FixturesURL)
	default:
		return fmt.Errorf("verify requires --fixtures or --url")
	}
	if err != nil {
		return err
	}
	logger.Debug().Int("fixtures", len(set)).Msg("loaded fixture set")

	report := set.Run(logger)
	fmt.Fprintf(e.stdout, "%d passed, %d failed\n", report.Passed, len(report.Failures))
	if !report.OK() {
		return fmt.Errorf("%d of %d fixtures failed", len(report.Failures), len(set))
	}
	return nil
}
