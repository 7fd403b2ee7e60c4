// Package fixture loads polyglot conformance fixtures and checks the codec
// against them.
//
// A fixture file is a JSON array of test vectors:
//
//	[{"name": "Max U32", "kind": 10, "encodedValue": "Cv////8P", "decodedValue": 4294967295}]
//
// encodedValue is the base64 encoding of the expected wire bytes and
// decodedValue is the JSON form of the value. Fixture sets are loaded
// explicitly by the caller and passed where they are needed.
package fixture

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog"

	"github.com/loopholelabs/polyglot/pkg/polyglot"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Fixture is a single conformance vector.
type Fixture struct {
	Name         string
	Kind         polyglot.Kind
	EncodedValue []byte
	DecodedValue jsoniter.RawMessage
}

type rawFixture struct {
	Name         string              `json:"name"`
	Kind         uint8               `json:"kind"`
	EncodedValue string              `json:"encodedValue"`
	DecodedValue jsoniter.RawMessage `json:"decodedValue"`
}

// Set is an ordered collection of fixtures.
type Set []Fixture

// Load parses a fixture set from r.
func Load(r io.Reader) (Set, error) {
	var raw []rawFixture
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}

	set := make(Set, 0, len(raw))
	for i, rf := range raw {
		kind := polyglot.KindOf(rf.Kind)
		if !kind.Valid() {
			return nil, fmt.Errorf("fixture %d (%q): unknown kind %d", i, rf.Name, rf.Kind)
		}
		encoded, err := base64.StdEncoding.DecodeString(rf.EncodedValue)
		if err != nil {
			return nil, fmt.Errorf("fixture %d (%q): decode encodedValue: %w", i, rf.Name, err)
		}
		decoded := rf.DecodedValue
		if len(decoded) == 0 {
			// jsoniter leaves a RawMessage empty for JSON null
			decoded = jsoniter.RawMessage("null")
		}
		set = append(set, Fixture{
			Name:         rf.Name,
			Kind:         kind,
			EncodedValue: encoded,
			DecodedValue: decoded,
		})
	}
	return set, nil
}

// LoadFile parses the fixture set stored at path.
func LoadFile(path string) (Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open fixtures: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Fetch downloads and parses a fixture set. A nil client uses
// http.DefaultClient.
func Fetch(ctx context.Context, client *http.Client, url string) (Set, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build fixture request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch fixtures: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch fixtures: %s returned %s", url, resp.Status)
	}
	return Load(resp.Body)
}

// Failure records a fixture that did not pass.
type Failure struct {
	Fixture Fixture
	Err     error
}

// Report summarizes a Run.
type Report struct {
	Passed   int
	Failures []Failure
}

// OK reports whether every fixture passed.
func (r Report) OK() bool {
	return len(r.Failures) == 0
}

// Run checks every fixture in the set, logging each result.
func (s Set) Run(logger zerolog.Logger) Report {
	var report Report
	for _, f := range s {
		if err := Check(f); err != nil {
			logger.Error().Err(err).Str("fixture", f.Name).Stringer("kind", f.Kind).Msg("fixture failed")
			report.Failures = append(report.Failures, Failure{Fixture: f, Err: err})
			continue
		}
		logger.Debug().Str("fixture", f.Name).Stringer("kind", f.Kind).Msg("fixture passed")
		report.Passed++
	}
	logger.Info().Int("passed", report.Passed).Int("failed", len(report.Failures)).Msg("fixture run complete")
	return report
}
