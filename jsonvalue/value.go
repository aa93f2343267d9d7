// Package jsonvalue provides schema-tolerant navigation helpers over
// arbitrary decoded-JSON values (the map[string]interface{}/[]interface{}
// shape encoding/json produces), used by the normalizer to probe
// provider payloads whose structure varies by event type and version.
package jsonvalue

import (
	"strconv"
	"strings"
)

// IsEmpty reports whether v counts as "absent" for extraction purposes:
// nil, an empty/whitespace string, or an empty array.
func IsEmpty(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(val) == ""
	case []interface{}:
		return len(val) == 0
	default:
		return false
	}
}

// AsString coerces a decoded-JSON scalar to its string form. Non-scalars
// return "", false.
func AsString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case float64:
		if val == float64(int64(val)) {
			return strconv.FormatInt(int64(val), 10), true
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(val), true
	case nil:
		return "", false
	default:
		return "", false
	}
}

// Probe walks a single dotted path with optional "[index]" array
// segments (e.g. "statuses[0].errors[0].code") and returns the value
// found there, or (nil, false) if any segment along the way is missing.
func Probe(root interface{}, path string) (interface{}, bool) {
	cur := root
	for _, seg := range splitPath(path) {
		key, idx, hasIdx := parseSegment(seg)

		if key != "" {
			m, ok := cur.(map[string]interface{})
			if !ok {
				return nil, false
			}
			v, ok := lookupCaseInsensitive(m, key)
			if !ok {
				return nil, false
			}
			cur = v
		}

		if hasIdx {
			arr, ok := cur.([]interface{})
			if !ok || idx < 0 || idx >= len(arr) {
				return nil, false
			}
			cur = arr[idx]
		}
	}
	return cur, true
}

// ProbeFirst tries each path in order and returns the first non-empty
// value found, per the normalizer's "first non-empty wins" rule.
func ProbeFirst(root interface{}, paths ...string) (interface{}, bool) {
	for _, p := range paths {
		if v, ok := Probe(root, p); ok && !IsEmpty(v) {
			return v, true
		}
	}
	return nil, false
}

func splitPath(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

// parseSegment splits "foo[3]" into ("foo", 3, true), "foo" into
// ("foo", 0, false), and "[3]" into ("", 3, true).
func parseSegment(seg string) (key string, idx int, hasIdx bool) {
	open := strings.IndexByte(seg, '[')
	if open < 0 {
		return seg, 0, false
	}
	close := strings.IndexByte(seg, ']')
	if close < open {
		return seg, 0, false
	}
	key = seg[:open]
	n, err := strconv.Atoi(seg[open+1 : close])
	if err != nil {
		return key, 0, false
	}
	return key, n, true
}

func lookupCaseInsensitive(m map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := m[key]; ok {
		return v, true
	}
	for k, v := range m {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

// BFSFindKey walks the tree breadth-first (object values, then array
// items, level by level) and returns the value of the first key whose
// name matches (case-insensitively) any name in allow, skipping empty
// matches and continuing the search.
func BFSFindKey(root interface{}, allow ...string) (interface{}, bool) {
	allowSet := make(map[string]bool, len(allow))
	for _, a := range allow {
		allowSet[strings.ToLower(a)] = true
	}

	queue := []interface{}{root}
	for len(queue) > 0 {
		var next []interface{}
		for _, node := range queue {
			switch v := node.(type) {
			case map[string]interface{}:
				for k, val := range v {
					if allowSet[strings.ToLower(k)] && !IsEmpty(val) {
						return val, true
					}
				}
				for _, val := range v {
					next = append(next, val)
				}
			case []interface{}:
				for _, val := range v {
					next = append(next, val)
				}
			}
		}
		queue = next
	}
	return nil, false
}
