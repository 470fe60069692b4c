// Package conv converts loosely typed option and record values.
//
// Values reach the charting code from JSON documents, HTML attributes and Go
// callers, so a number may arrive as float64, int, json.Number or a numeric
// string. These helpers apply one set of coercion rules everywhere.
package conv

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Float converts v to a float64. Numeric strings are accepted after trimming
// surrounding space. NaN and infinities are rejected.
func Float(v any) (float64, bool) {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case int32:
		f = float64(x)
	case uint:
		f = float64(x)
	case uint64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// IsNumber reports whether v is a numeric Go value (not a numeric string).
func IsNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int64, int32, uint, uint64, json.Number:
		return true
	}
	return false
}

// Bool reports the truthiness of an option value. Strings "", "false", "0"
// and "no" are false, as are zero numbers and nil.
func Bool(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "", "false", "0", "no", "off":
			return false
		}
		return true
	}
	if f, ok := Float(v); ok {
		return f != 0
	}
	return true
}

// Present reports whether a query value should be sent. nil, false, empty
// strings and numeric zero are absent. Strings are never parsed, so "0" and
// "false" are present.
func Present(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	}
	if IsNumber(v) {
		f, ok := Float(v)
		return ok && f != 0
	}
	return true
}

// String formats v for display and for query strings. Sequences are joined
// with commas, numbers use the shortest representation.
func String(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case bool:
		return strconv.FormatBool(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case json.Number:
		return x.String()
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = String(e)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(x, ",")
	case fmt.Stringer:
		return x.String()
	case map[string]any:
		data, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(data)
	}
	return fmt.Sprint(v)
}

// Strings converts a string or a sequence into a string slice.
func Strings(v any) []string {
	switch x := v.(type) {
	case nil:
		return nil
	case string:
		return []string{x}
	case []string:
		return append([]string(nil), x...)
	case []any:
		out := make([]string, 0, len(x))
		for _, e := range x {
			out = append(out, String(e))
		}
		return out
	}
	return []string{String(v)}
}

// Round rounds f to the given number of decimals.
func Round(f float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(f*p) / p
}
