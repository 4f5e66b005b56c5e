package policy

import (
	"reflect"
	"strings"

	"github.com/ragfw/ragfw/internal/types"
)

// Env builds the composite root that rule paths resolve against.
func Env(meta, caller map[string]any, findings []types.Finding) map[string]any {
	fs := make([]any, 0, len(findings))
	for _, f := range findings {
		fs = append(fs, f.Fields())
	}
	if meta == nil {
		meta = map[string]any{}
	}
	if caller == nil {
		caller = map[string]any{}
	}
	return map[string]any{"metadata": meta, "context": caller, "findings": fs}
}

// Resolve walks a dotted path over nested mappings and sequences. Each segment
// expands the current candidate set: mappings holding the key contribute its
// value, sequences contribute the value from each mapping element holding the
// key, and sequence values are flattened in. It returns nil once no candidate
// remains, the value itself for a single candidate and []any otherwise.
func Resolve(root any, path string) any {
	cur := []any{root}
	for _, seg := range strings.Split(path, ".") {
		var next []any
		for _, node := range cur {
			if m, ok := asMap(node); ok {
				if v, ok := m[seg]; ok {
					next = appendFlat(next, v)
				}
				continue
			}
			if list, ok := asList(node); ok {
				for _, el := range list {
					if m, ok := asMap(el); ok {
						if v, ok := m[seg]; ok {
							next = appendFlat(next, v)
						}
					}
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		cur = next
	}
	if len(cur) == 1 {
		return cur[0]
	}
	return cur
}

// Matches reports whether a resolved value equals expected; a multi-valued
// resolution matches when any member does.
func Matches(resolved, expected any) bool {
	if list, ok := resolved.([]any); ok {
		for _, v := range list {
			if equal(v, expected) {
				return true
			}
		}
		return false
	}
	return equal(resolved, expected)
}

func appendFlat(dst []any, v any) []any {
	if list, ok := asList(v); ok {
		return append(dst, list...)
	}
	return append(dst, v)
}

func asMap(v any) (map[string]any, bool) {
	switch t := v.(type) {
	case map[string]any:
		return t, true
	case map[string]string:
		m := make(map[string]any, len(t))
		for k, s := range t {
			m[k] = s
		}
		return m, true
	case types.Finding:
		return t.Fields(), true
	}
	return nil, false
}

func asList(v any) ([]any, bool) {
	switch t := v.(type) {
	case []any:
		return t, true
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out, true
	case []map[string]any:
		out := make([]any, len(t))
		for i, m := range t {
			out[i] = m
		}
		return out, true
	case []types.Finding:
		out := make([]any, len(t))
		for i, f := range t {
			out[i] = f.Fields()
		}
		return out, true
	}
	return nil, false
}

// equal compares loosely typed values: numbers by value regardless of Go
// type, strings against string-like types.
func equal(a, b any) bool {
	if fa, ok := toFloat(a); ok {
		fb, ok := toFloat(b)
		return ok && fa == fb
	}
	if sa, ok := toString(a); ok {
		sb, ok := toString(b)
		return ok && sa == sb
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case types.Severity:
		return string(s), true
	case types.Action:
		return string(s), true
	}
	return "", false
}
