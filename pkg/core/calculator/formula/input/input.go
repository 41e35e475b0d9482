// Package input decodes loosely typed calculator readings posted as JSON
// objects, where numbers may arrive as strings.
package input

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Float converts a JSON value into a float64. Empty strings, nulls and
// non finite values ("NaN", "Inf") are absent.
func Float(v any) (float64, bool) {
	f, ok := toFloat(v)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	}
	return 0, false
}

// Present reports whether key holds a non empty value.
func Present(m map[string]any, key string) bool {
	v, ok := m[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
		return false
	}
	return true
}

// Optional returns a pointer to the value of key, nil when it is absent or not numeric.
func Optional(m map[string]any, key string) *float64 {
	if !Present(m, key) {
		return nil
	}
	f, ok := Float(m[key])
	if !ok {
		return nil
	}
	return &f
}

// Floats converts a string keyed map of JSON values, dropping non numeric entries.
func Floats(m map[string]any) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		if f, ok := Float(v); ok {
			out[k] = f
		}
	}
	return out
}
