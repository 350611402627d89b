// Package fixture holds canned API responses keyed by request path.
package fixture

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
)

// Set maps a request path such as "users/me" or "projects/1/sections" to
// the JSON value served as "data". Objects answer Get requests and arrays
// answer List requests.
type Set map[string]json.RawMessage

// Load reads a fixture set from a JSON file whose top level is an object
// of path to value.
func Load(path string) (Set, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixtures: %w", err)
	}
	return Parse(data)
}

// Parse decodes a fixture set and normalizes its keys.
func Parse(data []byte) (Set, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse fixtures: %w", err)
	}

	set := make(Set, len(raw))
	for key, value := range raw {
		norm := Key(key)
		if norm == "" {
			return nil, fmt.Errorf("invalid fixture key %q", key)
		}
		if _, dup := set[norm]; dup {
			return nil, fmt.Errorf("duplicate fixture key %q", norm)
		}
		if !isObjectOrArray(value) {
			return nil, fmt.Errorf("fixture %q must be an object or an array", norm)
		}
		set[norm] = value
	}
	return set, nil
}

// Key normalizes a request path into a fixture key.
func Key(path string) string {
	return strings.Trim(path, "/ ")
}

// Lookup returns the fixture for path.
func (s Set) Lookup(path string) (json.RawMessage, bool) {
	v, ok := s[Key(path)]
	return v, ok
}

// Paths returns the fixture keys, sorted.
func (s Set) Paths() []string {
	paths := make([]string, 0, len(s))
	for k := range s {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	return paths
}

func isObjectOrArray(v json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(v))
	return strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[")
}
