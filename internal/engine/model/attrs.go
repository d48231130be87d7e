package model

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
)

// Attrs holds node attributes. Attrs values attached to a node must be
// treated as read-only; use Set to derive a modified copy.
type Attrs map[string]any

// Clone returns a copy of the attributes. Int slices are copied as well.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return Attrs{}
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		if s, ok := v.([]int); ok {
			v = append([]int(nil), s...)
		}
		out[k] = v
	}
	return out
}

// Set returns a copy of the attributes with name set to value.
func (a Attrs) Set(name string, value any) Attrs {
	out := a.Clone()
	out[name] = value
	return out
}

// Int returns the named attribute as an int, or def when it is missing or
// not numeric.
func (a Attrs) Int(name string, def int) int {
	if n, ok := toInt(a[name]); ok {
		return n
	}
	return def
}

// Ints returns the named attribute as an int slice, or nil.
func (a Attrs) Ints(name string) []int {
	switch v := a[name].(type) {
	case []int:
		return v
	case []any:
		out := make([]int, 0, len(v))
		for _, e := range v {
			n, ok := toInt(e)
			if !ok {
				return nil
			}
			out = append(out, n)
		}
		return out
	}
	return nil
}

// String returns the named attribute as a string, or "".
func (a Attrs) String(name string) string {
	if s, ok := a[name].(string); ok {
		return s
	}
	return ""
}

// Equal reports whether two attribute sets hold equal values.
func (a Attrs) Equal(b Attrs) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !ValueEqual(v, w) {
			return false
		}
	}
	return true
}

// Format renders the attributes as k=v pairs in key order.
func (a Attrs) Format() string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, a[k]))
	}
	return strings.Join(parts, " ")
}

// ValueEqual compares two attribute values. Numbers compare by value
// regardless of their Go type, so 2, int64(2) and 2.0 are equal.
func ValueEqual(a, b any) bool {
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return x == y
		}
		return false
	}
	if isNil(a) || isNil(b) {
		return isNil(a) && isNil(b)
	}
	return reflect.DeepEqual(a, b)
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	case float32:
		if n == float32(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}
