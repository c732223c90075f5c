package hue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// envelopeEntry is one element of the array the bridge wraps command
// results in. Exactly one of Success or Error is set per entry.
type envelopeEntry struct {
	Success map[string]json.RawMessage `json:"success"`
	Error   *APIError                  `json:"error"`
}

// Applied is one attribute the bridge acknowledged in a command response,
// e.g. path "/lights/1/state/on" with value true. Values are kept raw so
// callers decode only the attributes they care about.
type Applied struct {
	Path  string
	Value json.RawMessage
}

// Attribute returns the last path segment, the attribute name itself.
func (a Applied) Attribute() string {
	if i := strings.LastIndexByte(a.Path, '/'); i >= 0 {
		return a.Path[i+1:]
	}
	return a.Path
}

// decodeEnvelope parses a command response body. The first error entry wins
// and is returned as an APIError; otherwise the success entries are
// flattened into Applied values in response order.
func decodeEnvelope(data []byte) ([]Applied, error) {
	var entries []envelopeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("malformed response envelope: %w", err)
	}

	applied := make([]Applied, 0, len(entries))
	for _, entry := range entries {
		if entry.Error != nil {
			return nil, entry.Error
		}
		applied = append(applied, flattenSuccess(entry.Success)...)
	}
	return applied, nil
}

// flattenSuccess turns one success object into Applied values. The bridge
// puts a single attribute in each entry; should one carry several, they are
// emitted in path order to keep the result deterministic.
func flattenSuccess(success map[string]json.RawMessage) []Applied {
	if len(success) == 0 {
		return nil
	}
	paths := make([]string, 0, len(success))
	for path := range success {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	applied := make([]Applied, 0, len(paths))
	for _, path := range paths {
		applied = append(applied, Applied{Path: path, Value: success[path]})
	}
	return applied
}

// errorInEnvelope checks whether a body that should be a plain JSON object
// is actually an error envelope. The bridge reports errors in the array
// shape on every endpoint, including reads.
func errorInEnvelope(data []byte) *APIError {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil
	}
	var entries []envelopeEntry
	if err := json.Unmarshal(trimmed, &entries); err != nil {
		return nil
	}
	for _, entry := range entries {
		if entry.Error != nil {
			return entry.Error
		}
	}
	return nil
}
