package normalize

import (
	"math"
	"sort"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"
)

func object(v any) (map[string]any, bool) {
	m, ok := v.(map[string]any)
	return m, ok
}

func list(v any) ([]any, bool) {
	arr, ok := v.([]any)
	return arr, ok
}

// str coerces a scalar to its string form. Numbers render as plain digits so
// compact dates survive the float round-trip through untyped decoding.
func str(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	default:
		return "", false
	}
}

func integer(v any) (int64, bool) {
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int64(n), true
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func boolean(v any) (bool, bool) {
	b, ok := v.(bool)
	return b, ok
}

// pick returns the first non-nil value among the given keys.
func pick(m map[string]any, keys ...string) (any, bool) {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return v, true
		}
	}
	return nil, false
}

// scalarString picks the first key whose value coerces to a non-empty
// string.
func scalarString(m map[string]any, keys ...string) (string, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if s, ok := str(v); ok {
			if trimmed := strings.TrimSpace(s); trimmed != "" {
				return trimmed, true
			}
		}
	}
	return "", false
}

func pickInt(m map[string]any, keys ...string) (int64, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if n, ok := integer(v); ok {
			return n, true
		}
	}
	return 0, false
}

func pickBool(m map[string]any, keys ...string) (bool, bool) {
	for _, k := range keys {
		v, ok := m[k]
		if !ok || v == nil {
			continue
		}
		if b, ok := boolean(v); ok {
			return b, true
		}
	}
	return false, false
}

// stringList accepts both flag encodings servers use: an array of names or
// an object of boolean flags. Object keys are sorted so the result is
// deterministic.
func stringList(v any) []string {
	switch vv := v.(type) {
	case []any:
		var out []string
		for _, item := range vv {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	case map[string]any:
		var out []string
		for k, flag := range vv {
			if b, ok := flag.(bool); ok && b {
				out = append(out, k)
			}
		}
		sort.Strings(out)
		return out
	default:
		return nil
	}
}

func upperAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(s)
	}
	return out
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

// recordsIn finds an entity list inside a loosely decoded payload: the
// payload itself when it is an array, the first present named key, or the
// sole value of a single-key object.
func recordsIn(v any, keys ...string) []any {
	if arr, ok := list(v); ok {
		return arr
	}
	m, ok := object(v)
	if !ok {
		return nil
	}
	for _, k := range keys {
		if arr, ok := list(m[k]); ok {
			return arr
		}
	}
	if len(m) == 1 {
		for _, sole := range m {
			if arr, ok := list(sole); ok {
				return arr
			}
		}
	}
	return nil
}

// genericRecords decodes raw and locates the record list per recordsIn. A
// payload that does not decode yields no records.
func genericRecords(raw json.RawMessage, keys ...string) []any {
	var loose any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return nil
	}
	return recordsIn(loose, keys...)
}
