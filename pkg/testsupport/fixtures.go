package testsupport

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goliatone/go-directory-cache/directory"
)

// hexPrefix marks fixture values holding binary data as hex.
const hexPrefix = "hex:"

// EntryFixture is the JSON form of a directory entry. Values starting with
// "hex:" are decoded into raw bytes, which keeps binary attributes such as
// objectGUID readable in fixture files.
type EntryFixture struct {
	DN         string              `json:"dn"`
	Attributes map[string][]string `json:"attributes"`
}

// LoadFixture loads test data from a fixture file.
// The path is relative to the test package directory.
func LoadFixture(t testing.TB, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}

	return data
}

// LoadFixtureJSON loads JSON test data from a fixture file and unmarshals it.
// The path is relative to the test package directory.
func LoadFixtureJSON(t testing.TB, path string, dest interface{}) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// LoadEntries loads a JSON array of entry fixtures.
func LoadEntries(t testing.TB, path string) []*directory.Entry {
	t.Helper()

	var fixtures []EntryFixture
	LoadFixtureJSON(t, path, &fixtures)

	entries, err := DecodeEntries(fixtures)
	if err != nil {
		t.Fatalf("invalid entry fixture in %s: %v", path, err)
	}
	return entries
}

// DecodeEntries converts fixtures into directory entries.
func DecodeEntries(fixtures []EntryFixture) ([]*directory.Entry, error) {
	out := make([]*directory.Entry, 0, len(fixtures))
	for _, f := range fixtures {
		attrs := make(map[string][]string, len(f.Attributes))
		for name, values := range f.Attributes {
			decoded := make([]string, 0, len(values))
			for _, v := range values {
				if strings.HasPrefix(v, hexPrefix) {
					raw, err := hex.DecodeString(strings.TrimPrefix(v, hexPrefix))
					if err != nil {
						return nil, err
					}
					v = string(raw)
				}
				decoded = append(decoded, v)
			}
			attrs[name] = decoded
		}
		out = append(out, directory.NewEntry(f.DN, attrs))
	}
	return out, nil
}

// WriteGolden writes test output to a golden file.
// This should typically only be called when updating golden files.
// The path is relative to the test package directory.
func WriteGolden(t testing.TB, path string, data []byte) {
	t.Helper()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("failed to create directory %s: %v", dir, err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write golden file to %s: %v", path, err)
	}
}

// CompareWithGolden compares actual data with expected data from a golden file.
// If the golden file doesn't exist, it creates one with the actual data.
func CompareWithGolden(t testing.TB, path string, actual []byte) {
	t.Helper()

	expected, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			t.Logf("Golden file %s does not exist, creating it", path)
			WriteGolden(t, path, actual)
			return
		}
		t.Fatalf("failed to read golden file %s: %v", path, err)
	}

	if string(actual) != string(expected) {
		t.Errorf("output mismatch for %s:\nExpected:\n%s\nActual:\n%s", path, expected, actual)
	}
}

// FixturePath constructs a path to a fixture file relative to the testdata directory.
func FixturePath(filename string) string {
	return filepath.Join("testdata", filename)
}

// GoldenPath constructs a path to a golden file relative to the testdata directory.
func GoldenPath(filename string) string {
	return filepath.Join("testdata", "golden", filename)
}
