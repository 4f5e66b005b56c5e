package types

import (
	"strconv"
	"strings"
	"time"
)

func CloneMetadata(meta map[string]any) map[string]any {
	out := make(map[string]any, len(meta)+4)
	for k, v := range meta {
		out[k] = v
	}
	return out
}

// Timestamp interprets a metadata value as a point in time. Numbers are Unix
// seconds; strings may be numeric or RFC 3339. Zero and unparsable values
// report false.
func Timestamp(v any) (time.Time, bool) {
	var secs float64
	switch t := v.(type) {
	case nil:
		return time.Time{}, false
	case time.Time:
		return t, !t.IsZero()
	case *time.Time:
		if t == nil || t.IsZero() {
			return time.Time{}, false
		}
		return *t, true
	case float64:
		secs = t
	case float32:
		secs = float64(t)
	case int:
		secs = float64(t)
	case int64:
		secs = float64(t)
	case int32:
		secs = float64(t)
	case uint64:
		secs = float64(t)
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			secs = f
			break
		}
		ts, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return time.Time{}, false
		}
		return ts, true
	default:
		return time.Time{}, false
	}
	if secs == 0 {
		return time.Time{}, false
	}
	whole := int64(secs)
	return time.Unix(whole, int64((secs-float64(whole))*1e9)), true
}

// Truthy follows the loose truthiness of declarative metadata: non-empty
// strings other than "false"/"0", non-zero numbers and true are truthy.
func Truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		s := strings.ToLower(strings.TrimSpace(t))
		return s != "" && s != "false" && s != "0" && s != "no"
	case int:
		return t != 0
	case int64:
		return t != 0
	case float64:
		return t != 0
	default:
		return true
	}
}

// Present reports whether key holds a non-empty value.
func Present(meta map[string]any, key string) bool {
	v, ok := meta[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok {
		return s != ""
	}
	return true
}
