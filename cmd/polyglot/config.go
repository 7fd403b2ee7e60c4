package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Config holds settings shared by all subcommands. Values come from the
// defaults, then an optional TOML file, then command-line flags.
type Config struct {
	LogLevel    zerolog.Level
	Hex         bool
	Fixtures    string
	FixturesURL string
	Timeout     time.Duration
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		LogLevel: zerolog.InfoLevel,
		Timeout:  30 * time.Second,
	}
}

type fileConfig struct {
	LogLevel    string `toml:"log_level"`
	Hex         bool   `toml:"hex"`
	Fixtures    string `toml:"fixtures"`
	FixturesURL string `toml:"fixtures_url"`
	Timeout     string `toml:"timeout"`
}

func loadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log_level") {
		level, err := zerolog.ParseLevel(strings.TrimSpace(raw.LogLevel))
		if err != nil {
			return Config{}, fmt.Errorf("parse log_level: %w", err)
		}
		cfg.LogLevel = level
	}

	if meta.IsDefined("hex") {
		cfg.Hex = raw.Hex
	}

	if meta.IsDefined("fixtures") {
		cfg.Fixtures = strings.TrimSpace(raw.Fixtures)
	}

	if meta.IsDefined("fixtures_url") {
		cfg.FixturesURL = strings.TrimSpace(raw.FixturesURL)
	}

	if meta.IsDefined("timeout") {
		d, err := time.ParseDuration(strings.TrimSpace(raw.Timeout))
		if err != nil {
			return Config{}, fmt.Errorf("parse timeout: %w", err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("parse timeout: must be positive, got %s", d)
		}
		cfg.Timeout = d
	}

	return cfg, nil
}
