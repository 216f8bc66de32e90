package testsupport

import (
	"encoding/json"
	"os"
	"testing"
)

// LoadFixture loads test data from a fixture file, relative to the test
// package directory.
func LoadFixture(t *testing.T, path string) []byte {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to load fixture from %s: %v", path, err)
	}
	return data
}

// LoadFixtureJSON loads a JSON fixture file and unmarshals it into dest.
func LoadFixtureJSON(t *testing.T, path string, dest any) {
	t.Helper()

	data := LoadFixture(t, path)
	if err := json.Unmarshal(data, dest); err != nil {
		t.Fatalf("failed to unmarshal JSON fixture from %s: %v", path, err)
	}
}

// EnvelopeJSON renders a backend list payload in the {items, pages} shape
// the fetch layer validates against.
func EnvelopeJSON(t *testing.T, items any, pages int) []byte {
	t.Helper()

	payload, err := json.Marshal(map[string]any{
		"items": items,
		"pages": pages,
	})
	if err != nil {
		t.Fatalf("failed to marshal envelope: %v", err)
	}
	return payload
}

// BrokenEnvelopeJSON renders a payload missing the given envelope field,
// for schema-validation tests.
func BrokenEnvelopeJSON(t *testing.T, drop string) []byte {
	t.Helper()

	full := map[string]any{"items": []any{}, "pages": 0}
	if _, ok := full[drop]; !ok {
		t.Fatalf("unknown envelope field %q", drop)
	}
	delete(full, drop)

	payload, err := json.Marshal(full)
	if err != nil {
		t.Fatalf("failed to marshal envelope: %v", err)
	}
	return payload
}
