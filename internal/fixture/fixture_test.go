package fixture

import (
	"bytes"
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/loopholelabs/polyglot/pkg/polyglot"
)

const testDataPath = "testdata/polyglot-test-data.json"

func loadTestData(t *testing.T) Set {
	t.Helper()
	set, err := LoadFile(testDataPath)
	require.NoError(t, err)
	require.NotEmpty(t, set)
	return set
}

func TestLoadFile(t *testing.T) {
	set := loadTestData(t)

	kinds := make(map[polyglot.Kind]bool)
	for _, f := range set {
		kinds[f.Kind] = true
	}
	// every wire kind except the Any placeholder has a vector
	for k := polyglot.KindNone; k <= polyglot.KindF64; k++ {
		if k == polyglot.KindAny {
			continue
		}
		assert.True(t, kinds[k], "no fixture for %s", k)
	}

	assert.Equal(t, "None", set[0].Name)
	assert.Equal(t, []byte{0x00}, set[0].EncodedValue)
}

func TestCheckAll(t *testing.T) {
	for _, f := range loadTestData(t) {
		t.Run(f.Name, func(t *testing.T) {
			assert.NoError(t, Check(f))
		})
	}
}

func TestRun(t *testing.T) {
	var logs bytes.Buffer
	report := loadTestData(t).Run(zerolog.New(&logs))

	assert.True(t, report.OK())
	assert.Equal(t, len(loadTestData(t)), report.Passed)
	assert.Contains(t, logs.String(), "fixture run complete")
}

func TestRunReportsFailures(t *testing.T) {
	set := Set{
		{Name: "good", Kind: polyglot.KindU8, EncodedValue: []byte{0x08, 0x01}, DecodedValue: []byte("1")},
		{Name: "bad", Kind: polyglot.KindU8, EncodedValue: []byte{0x08, 0x02}, DecodedValue: []byte("1")},
	}

	var logs bytes.Buffer
	report := set.Run(zerolog.New(&logs))

	assert.False(t, report.OK())
	assert.Equal(t, 1, report.Passed)
	require.Len(t, report.Failures, 1)
	assert.Equal(t, "bad", report.Failures[0].Fixture.Name)
	assert.ErrorIs(t, report.Failures[0].Err, ErrMismatch)
	assert.Contains(t, logs.String(), `"fixture":"bad"`)
}

func TestCheckMismatch(t *testing.T) {
	tests := []struct {
		name    string
		fixture Fixture
	}{
		{
			"string encoding",
			Fixture{Name: "s", Kind: polyglot.KindString, EncodedValue: []byte{0x05, 0x0a, 0x01, 'a'}, DecodedValue: []byte(`"b"`)},
		},
		{
			"none probe",
			Fixture{Name: "n", Kind: polyglot.KindNone, EncodedValue: []byte{0x07, 0x01}, DecodedValue: []byte(`null`)},
		},
		{
			"f64 low byte",
			Fixture{Name: "f", Kind: polyglot.KindF64, EncodedValue: []byte{0x0f, 0x3f, 0xf8, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01}, DecodedValue: []byte(`1.5`)},
		},
		{
			"map order",
			Fixture{
				Name:         "m",
				Kind:         polyglot.KindMap,
				EncodedValue: polyglot.NewWriter(nil).WriteMap(2, polyglot.KindString, polyglot.KindU32).WriteString("b").WriteU32(2).WriteString("a").WriteU32(1).Bytes(),
				DecodedValue: []byte(`{"a": 1, "b": 2}`),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, Check(tt.fixture), ErrMismatch)
		})
	}
}

func TestLoadNullDecodedValue(t *testing.T) {
	set, err := Load(strings.NewReader(`[{"name": "None", "kind": 0, "encodedValue": "AA==", "decodedValue": null}]`))
	require.NoError(t, err)
	require.Len(t, set, 1)
	assert.Equal(t, "null", string(set[0].DecodedValue))
	assert.NoError(t, Check(set[0]))
}

func TestDecodeHugeDeclaredLength(t *testing.T) {
	array := polyglot.NewWriter(nil).WriteArray(math.MaxUint32, polyglot.KindString).Bytes()
	_, err := decode(polyglot.KindArray, array)
	assert.ErrorIs(t, err, polyglot.ErrInvalidString)
	assert.ErrorIs(t, err, polyglot.ErrTruncated)

	m := polyglot.NewWriter(nil).WriteMap(math.MaxUint32, polyglot.KindString, polyglot.KindU32).WriteString("k").Bytes()
	_, err = decode(polyglot.KindMap, m)
	assert.ErrorIs(t, err, polyglot.ErrInvalidU32)
	assert.ErrorIs(t, err, polyglot.ErrTruncated)
}

func TestCheckNoneNotNull(t *testing.T) {
	// A None fixture with a non-null value only asserts the probe fails.
	f := Fixture{Name: "not none", Kind: polyglot.KindNone, EncodedValue: []byte{0x07, 0x01}, DecodedValue: []byte(`true`)}
	assert.NoError(t, Check(f))
}

func TestCheckInvalidDecodedValue(t *testing.T) {
	f := Fixture{Name: "u8 overflow", Kind: polyglot.KindU8, EncodedValue: []byte{0x08, 0x00}, DecodedValue: []byte("256")}
	err := Check(f)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overflows u8")
}

func TestCheckTrailingBytes(t *testing.T) {
	f := Fixture{Name: "trailing", Kind: polyglot.KindBool, EncodedValue: []byte{0x07, 0x01, 0x00}, DecodedValue: []byte("true")}
	assert.Error(t, Check(f))
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		msg   string
	}{
		{"not json", `{`, "parse fixtures"},
		{"unknown kind", `[{"name": "x", "kind": 16, "encodedValue": "AA==", "decodedValue": null}]`, "unknown kind 16"},
		{"bad base64", `[{"name": "x", "kind": 0, "encodedValue": "!!", "decodedValue": null}]`, "decode encodedValue"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := LoadFile("testdata/missing.json")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFetch(t *testing.T) {
	data, err := os.ReadFile(testDataPath)
	require.NoError(t, err)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/polyglot-test-data.json" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	defer server.Close()

	set, err := Fetch(context.Background(), server.Client(), server.URL+"/polyglot-test-data.json")
	require.NoError(t, err)
	assert.Equal(t, len(loadTestData(t)), len(set))

	_, err = Fetch(context.Background(), server.Client(), server.URL+"/missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Fetch(ctx, nil, server.URL+"/polyglot-test-data.json")
	assert.ErrorIs(t, err, context.Canceled)
}
